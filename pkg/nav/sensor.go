package nav

import (
	"errors"
	"sort"
	"time"

	"github.com/golang/glog"
	"github.com/stianeikeland/go-rpio/v4"
)

// Valid reading range of the ultrasonic sensor. Readings outside the
// gate are echoes or timeouts and must be discarded.
const (
	MinValidDistance = 2.0
	MaxValidDistance = 398.0
)

// ErrNoEcho is returned when the echo pulse never arrives.
var ErrNoEcho = errors.New("nav: no echo from distance sensor")

// DistanceSensor reads one range sample in centimeters.
type DistanceSensor interface {
	ReadDistance() (float64, error)
}

// Ultrasonic is an HC-SR04 style sensor on two GPIO lines: a 10us
// trigger pulse starts a ping and the echo line goes high for the
// sound's round-trip time.
type Ultrasonic struct {
	// EchoTimeout bounds the wait for the echo pulse. The sensor's
	// own range limit is about 23ms of round trip.
	EchoTimeout time.Duration

	trig rpio.Pin
	echo rpio.Pin
}

const defaultEchoTimeout = 40 * time.Millisecond

// NewUltrasonic binds the BCM-numbered trigger and echo pins.
func NewUltrasonic(trigPin, echoPin int) *Ultrasonic {
	trig := rpio.Pin(trigPin)
	trig.Output()
	trig.Low()
	echo := rpio.Pin(echoPin)
	echo.Input()
	return &Ultrasonic{EchoTimeout: defaultEchoTimeout, trig: trig, echo: echo}
}

// ReadDistance implements DistanceSensor.
func (u *Ultrasonic) ReadDistance() (float64, error) {
	u.trig.High()
	time.Sleep(10 * time.Microsecond)
	u.trig.Low()

	deadline := time.Now().Add(u.EchoTimeout)
	for u.echo.Read() == rpio.Low {
		if time.Now().After(deadline) {
			return 0, ErrNoEcho
		}
	}
	start := time.Now()
	for u.echo.Read() == rpio.High {
		if time.Now().After(deadline) {
			return 0, ErrNoEcho
		}
	}
	// Speed of sound, there and back: 343 m/s over 2.
	cm := time.Since(start).Seconds() * 17150
	return cm, nil
}

// MedianDistance takes n samples and returns the median of the ones
// inside the valid gate. ok is false when no sample was usable.
func MedianDistance(sensor DistanceSensor, n int, pause time.Duration) (float64, bool) {
	valid := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		d, err := sensor.ReadDistance()
		if err != nil {
			glog.V(4).Infof("nav: sample %d/%d failed: %v", i+1, n, err)
		} else if d > MinValidDistance && d < MaxValidDistance {
			valid = append(valid, d)
		} else {
			glog.V(4).Infof("nav: sample %d/%d out of range: %.1fcm", i+1, n, d)
		}
		if pause > 0 {
			time.Sleep(pause)
		}
	}
	if len(valid) == 0 {
		return 0, false
	}
	sort.Float64s(valid)
	mid := len(valid) / 2
	if len(valid)%2 == 0 {
		return (valid[mid-1] + valid[mid]) / 2, true
	}
	return valid[mid], true
}
