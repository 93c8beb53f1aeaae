package nav

import (
	"flag"
	"time"
)

// Config defines the tunables of the navigation loop.
type Config struct {
	// ObstacleDistance is the clearance D (cm) a bearing must offer
	// to count as open.
	ObstacleDistance float64
	// ScanArc is the total sweep width in degrees, centered ahead.
	ScanArc float64
	// ScanStep is the sweep increment in degrees.
	ScanStep float64
	// Samples is the reading count per scan point; the median of
	// the valid ones is used.
	Samples int
	// SettleTime is the pause after moving the pan head before
	// sampling.
	SettleTime time.Duration
	// SamplePause separates consecutive sensor reads.
	SamplePause time.Duration
	// MinCycle is the minimum duration of one scan-decide-act
	// cycle; faster cycles sleep the remainder.
	MinCycle time.Duration
	// BackoutPause is the stand-still time between the emergency
	// stop and the reverse move.
	BackoutPause time.Duration
	// BackoutSteps is the reverse burst after an emergency stop,
	// 0 meaning the muscle's default magnitude.
	BackoutSteps int
}

// Defaults
const (
	DefaultObstacleDistance float64 = 35
	DefaultScanArc          float64 = 180
	DefaultScanStep         float64 = 10
	DefaultSamples                  = 5
	DefaultSettleTime               = 50 * time.Millisecond
	DefaultSamplePause              = 10 * time.Millisecond
	DefaultMinCycle                 = time.Second
	DefaultBackoutPause             = 500 * time.Millisecond
)

var defaultConfig = Config{
	ObstacleDistance: DefaultObstacleDistance,
	ScanArc:          DefaultScanArc,
	ScanStep:         DefaultScanStep,
	Samples:          DefaultSamples,
	SettleTime:       DefaultSettleTime,
	SamplePause:      DefaultSamplePause,
	MinCycle:         DefaultMinCycle,
	BackoutPause:     DefaultBackoutPause,
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.ObstacleDistance, "obstacle-distance", defaultConfig.ObstacleDistance, "Clearance (cm) a bearing must offer to count as open.")
	flag.Float64Var(&defaultConfig.ScanArc, "scan-arc", defaultConfig.ScanArc, "Total sweep width (degrees), centered ahead.")
	flag.Float64Var(&defaultConfig.ScanStep, "scan-step", defaultConfig.ScanStep, "Sweep increment (degrees).")
	flag.IntVar(&defaultConfig.Samples, "scan-samples", defaultConfig.Samples, "Sensor readings per scan point.")
	flag.DurationVar(&defaultConfig.SettleTime, "scan-settle", defaultConfig.SettleTime, "Pause after moving the pan head before sampling.")
	flag.DurationVar(&defaultConfig.SamplePause, "sample-pause", defaultConfig.SamplePause, "Pause between sensor readings of one scan point.")
	flag.DurationVar(&defaultConfig.MinCycle, "min-cycle", defaultConfig.MinCycle, "Minimum duration of one navigation cycle.")
	flag.DurationVar(&defaultConfig.BackoutPause, "backout-pause", defaultConfig.BackoutPause, "Stand-still time before the emergency reverse.")
	flag.IntVar(&defaultConfig.BackoutSteps, "backout-steps", defaultConfig.BackoutSteps, "Reverse burst after an emergency stop, 0 for the muscle default.")
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
