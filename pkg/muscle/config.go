package muscle

import (
	"flag"
	"os"
	"time"
)

// Config defines the muscle's hardware binding.
type Config struct {
	// LinkDevice is the serial device carrying the brain protocol.
	LinkDevice string
	// LinkBaudRate of the brain link.
	LinkBaudRate int

	// LeftTMCDevice and RightTMCDevice are the UART devices of the
	// two drive drivers. Empty skips driver configuration, leaving
	// the power-on defaults.
	LeftTMCDevice  string
	RightTMCDevice string

	// BCM pin numbers of the drive outputs. The enable line is
	// shared and active low.
	LeftStepPin  int
	LeftDirPin   int
	RightStepPin int
	RightDirPin  int
	EnablePin    int

	// Driver tuning applied at startup.
	RunCurrentPct   int
	HoldCurrentPct  int
	Microsteps      int
	StealthChop     bool
	HybridThreshold uint
	Interpolate     bool

	// StepDelay paces drive steps.
	StepDelay time.Duration
}

// Defaults
const (
	DefaultLinkDevice      = "/dev/serial0"
	DefaultLeftTMCDevice   = "/dev/ttyAMA2"
	DefaultRightTMCDevice  = "/dev/ttyAMA3"
	DefaultRunCurrentPct   = 50
	DefaultHoldCurrentPct  = 25
	DefaultHybridThreshold = 100
)

var defaultConfig = Config{
	LinkDevice:      DefaultLinkDevice,
	LinkBaudRate:    115200,
	LeftTMCDevice:   DefaultLeftTMCDevice,
	RightTMCDevice:  DefaultRightTMCDevice,
	LeftStepPin:     2,
	LeftDirPin:      3,
	RightStepPin:    14,
	RightDirPin:     15,
	EnablePin:       22,
	RunCurrentPct:   DefaultRunCurrentPct,
	HoldCurrentPct:  DefaultHoldCurrentPct,
	Microsteps:      16,
	StealthChop:     true,
	HybridThreshold: DefaultHybridThreshold,
	Interpolate:     true,
	StepDelay:       time.Millisecond,
}

func init() {
	if val := os.Getenv("ROVER_LINK_DEV"); val != "" {
		defaultConfig.LinkDevice = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.LinkDevice, "link-dev", defaultConfig.LinkDevice, "Serial device of the brain link.")
	flag.IntVar(&defaultConfig.LinkBaudRate, "link-baud", defaultConfig.LinkBaudRate, "Baud rate of the brain link.")
	flag.StringVar(&defaultConfig.LeftTMCDevice, "tmc-left-dev", defaultConfig.LeftTMCDevice, "UART device of the left drive driver, empty skips configuration.")
	flag.StringVar(&defaultConfig.RightTMCDevice, "tmc-right-dev", defaultConfig.RightTMCDevice, "UART device of the right drive driver, empty skips configuration.")
	flag.IntVar(&defaultConfig.LeftStepPin, "left-step-pin", defaultConfig.LeftStepPin, "BCM pin of the left step line.")
	flag.IntVar(&defaultConfig.LeftDirPin, "left-dir-pin", defaultConfig.LeftDirPin, "BCM pin of the left direction line.")
	flag.IntVar(&defaultConfig.RightStepPin, "right-step-pin", defaultConfig.RightStepPin, "BCM pin of the right step line.")
	flag.IntVar(&defaultConfig.RightDirPin, "right-dir-pin", defaultConfig.RightDirPin, "BCM pin of the right direction line.")
	flag.IntVar(&defaultConfig.EnablePin, "enable-pin", defaultConfig.EnablePin, "BCM pin of the shared active-low driver enable.")
	flag.IntVar(&defaultConfig.RunCurrentPct, "run-current", defaultConfig.RunCurrentPct, "Run current in percent of the driver maximum.")
	flag.IntVar(&defaultConfig.HoldCurrentPct, "hold-current", defaultConfig.HoldCurrentPct, "Hold current in percent of the driver maximum.")
	flag.IntVar(&defaultConfig.Microsteps, "microsteps", defaultConfig.Microsteps, "Microstep resolution (1..256, power of two).")
	flag.BoolVar(&defaultConfig.StealthChop, "stealthchop", defaultConfig.StealthChop, "Run in stealthChop voltage mode.")
	flag.UintVar(&defaultConfig.HybridThreshold, "hybrid-threshold", defaultConfig.HybridThreshold, "TSTEP threshold for switching to spreadCycle.")
	flag.BoolVar(&defaultConfig.Interpolate, "interpolate", defaultConfig.Interpolate, "Interpolate to 256 microsteps internally.")
	flag.DurationVar(&defaultConfig.StepDelay, "step-delay", defaultConfig.StepDelay, "Pause between drive steps.")
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
