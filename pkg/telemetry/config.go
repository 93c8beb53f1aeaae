package telemetry

import (
	"flag"
	"os"

	"github.com/denisbrodbeck/machineid"
)

// Config provides options to set up a Reporter.
type Config struct {
	// BrokerURL is the MQTT broker, e.g. mqtt://host:1883/rovers/.
	// Empty disables telemetry.
	BrokerURL string
	// RoverID names this rover's topic subtree. Defaults to the
	// machine ID.
	RoverID string
}

var defaultConfig = Config{}

func init() {
	if val := os.Getenv("ROVER_MQTT_URL"); val != "" {
		defaultConfig.BrokerURL = val
	}
	if val := os.Getenv("ROVER_ID"); val != "" {
		defaultConfig.RoverID = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.BrokerURL, "mqtt-url", defaultConfig.BrokerURL, "MQTT broker URL, empty disables telemetry.")
	flag.StringVar(&defaultConfig.RoverID, "rover-id", defaultConfig.RoverID, "Rover ID, defaults to the machine ID.")
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

// Enabled reports whether a broker is configured.
func (c *Config) Enabled() bool {
	return c.BrokerURL != ""
}

// NewReporter creates the Reporter using current config.
func (c *Config) NewReporter() (*Reporter, error) {
	id := c.RoverID
	if id == "" {
		machine, err := machineid.ID()
		if err != nil {
			return nil, err
		}
		id = machine
	}
	return NewReporter(c.BrokerURL, id)
}
