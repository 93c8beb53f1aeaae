package motion

import (
	"github.com/stianeikeland/go-rpio/v4"
)

// Pin is a single digital output. Motors drive their coil, step and
// direction lines through this interface so tests can substitute a
// recording fake for the Pi's GPIO header.
type Pin interface {
	High()
	Low()
}

type gpioPin struct {
	pin rpio.Pin
}

func (p gpioPin) High() { p.pin.High() }
func (p gpioPin) Low()  { p.pin.Low() }

// OpenGPIO maps the GPIO memory range. The returned closer unmaps it
// and must be called before exit.
func OpenGPIO() (func() error, error) {
	if err := rpio.Open(); err != nil {
		return nil, err
	}
	return rpio.Close, nil
}

// OutputPin configures a BCM-numbered pin as a low output.
func OutputPin(num int) Pin {
	p := rpio.Pin(num)
	p.Output()
	p.Low()
	return gpioPin{pin: p}
}

// OutputPins configures a list of BCM-numbered pins as low outputs.
func OutputPins(nums ...int) []Pin {
	pins := make([]Pin, len(nums))
	for i, n := range nums {
		pins[i] = OutputPin(n)
	}
	return pins
}
