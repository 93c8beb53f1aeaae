package brain

import (
	"flag"
	"os"
)

// Config defines the brain's hardware binding.
type Config struct {
	// LinkDevice is the serial device to the muscle.
	LinkDevice string
	// LinkBaudRate of the muscle link.
	LinkBaudRate int

	// PanPins are the four BCM-numbered coil pins of the pan
	// stepper, in phase order.
	PanPins [4]int
	// PanInverted flips the pan rotation sense.
	PanInverted bool

	// TrigPin and EchoPin bind the ultrasonic sensor.
	TrigPin int
	EchoPin int
}

// DefaultLinkDevice talks to the muscle over the Pi's primary UART.
const DefaultLinkDevice = "/dev/serial0"

var defaultConfig = Config{
	LinkDevice:   DefaultLinkDevice,
	LinkBaudRate: 115200,
	PanPins:      [4]int{6, 13, 19, 26},
	TrigPin:      23,
	EchoPin:      24,
}

func init() {
	if val := os.Getenv("ROVER_LINK_DEV"); val != "" {
		defaultConfig.LinkDevice = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.LinkDevice, "link-dev", defaultConfig.LinkDevice, "Serial device of the muscle link.")
	flag.IntVar(&defaultConfig.LinkBaudRate, "link-baud", defaultConfig.LinkBaudRate, "Baud rate of the muscle link.")
	flag.IntVar(&defaultConfig.PanPins[0], "pan-pin1", defaultConfig.PanPins[0], "BCM pin of pan coil 1.")
	flag.IntVar(&defaultConfig.PanPins[1], "pan-pin2", defaultConfig.PanPins[1], "BCM pin of pan coil 2.")
	flag.IntVar(&defaultConfig.PanPins[2], "pan-pin3", defaultConfig.PanPins[2], "BCM pin of pan coil 3.")
	flag.IntVar(&defaultConfig.PanPins[3], "pan-pin4", defaultConfig.PanPins[3], "BCM pin of pan coil 4.")
	flag.BoolVar(&defaultConfig.PanInverted, "pan-inverted", defaultConfig.PanInverted, "Flip the pan rotation sense.")
	flag.IntVar(&defaultConfig.TrigPin, "trig-pin", defaultConfig.TrigPin, "BCM pin of the ultrasonic trigger.")
	flag.IntVar(&defaultConfig.EchoPin, "echo-pin", defaultConfig.EchoPin, "BCM pin of the ultrasonic echo.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}
