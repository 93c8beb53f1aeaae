// Package muscle assembles the motor-side half of the rover: the TMC
// drive drivers, the motion sequencer and the command protocol server,
// bound to the configured pins and serial devices.
package muscle

import (
	"fmt"
	"io"

	"github.com/golang/glog"

	"github.com/dreampi/rover.go/pkg/framework"
	"github.com/dreampi/rover.go/pkg/link"
	"github.com/dreampi/rover.go/pkg/motion"
	"github.com/dreampi/rover.go/pkg/tmc"
)

// Rig is the assembled muscle hardware.
type Rig struct {
	Engine *motion.Sequencer
	Server *link.Server

	closers   []io.Closer
	closeGPIO func() error
}

// Setup maps the GPIO, configures the drive drivers and opens the
// brain link. The motors are left enabled; Close disables them again.
func (c *Config) Setup() (*Rig, error) {
	closeGPIO, err := motion.OpenGPIO()
	if err != nil {
		return nil, fmt.Errorf("muscle: map gpio: %w", err)
	}
	rig := &Rig{closeGPIO: closeGPIO}

	left := motion.NewStepDirMotor("left",
		motion.OutputPin(c.LeftStepPin), motion.OutputPin(c.LeftDirPin), false)
	right := motion.NewStepDirMotor("right",
		motion.OutputPin(c.RightStepPin), motion.OutputPin(c.RightDirPin), true)
	enable := motion.OutputPin(c.EnablePin)
	enable.High() // keep drivers off until configured

	rig.Engine = motion.NewSequencer(
		[]motion.Motor{left}, []motion.Motor{right}, enable)
	rig.Engine.StepDelay = c.StepDelay
	rig.Engine.RevolutionSteps = 200 * c.Microsteps

	for _, d := range []struct {
		name   string
		device string
	}{
		{"left", c.LeftTMCDevice},
		{"right", c.RightTMCDevice},
	} {
		if d.device == "" {
			glog.Warningf("muscle: %s driver unconfigured, using power-on defaults", d.name)
			continue
		}
		if err := c.setupDriver(rig, d.name, d.device); err != nil {
			rig.Close()
			return nil, err
		}
	}

	port, err := link.OpenSerial(c.LinkDevice, c.LinkBaudRate)
	if err != nil {
		rig.Close()
		return nil, err
	}
	rig.closers = append(rig.closers, port)
	rig.Server = link.NewServer(port, rig.Engine)

	rig.Engine.Enable()
	return rig, nil
}

func (c *Config) setupDriver(rig *Rig, name, device string) error {
	port, err := link.OpenSerial(device, link.DefaultBaudRate)
	if err != nil {
		return fmt.Errorf("muscle: %s driver: %w", name, err)
	}
	rig.closers = append(rig.closers, port)

	drv := tmc.NewDriver(port, 0)
	if err := drv.EnableUARTControl(); err != nil {
		return fmt.Errorf("muscle: %s driver: %w", name, err)
	}
	if err := drv.SetRunCurrent(c.RunCurrentPct, c.HoldCurrentPct); err != nil {
		return fmt.Errorf("muscle: %s driver: %w", name, err)
	}
	if err := drv.SetMicrosteps(c.Microsteps); err != nil {
		return fmt.Errorf("muscle: %s driver: %w", name, err)
	}
	if err := drv.EnableStealthChop(c.StealthChop); err != nil {
		return fmt.Errorf("muscle: %s driver: %w", name, err)
	}
	if c.StealthChop {
		if err := drv.SetHybridThreshold(uint32(c.HybridThreshold)); err != nil {
			return fmt.Errorf("muscle: %s driver: %w", name, err)
		}
	}
	if c.Interpolate {
		if err := drv.EnableInterpolation(true); err != nil {
			return fmt.Errorf("muscle: %s driver: %w", name, err)
		}
	}

	// Read-back diagnostics. The UART wiring on this rig is
	// transmit-only in places, so failures here are logged, not
	// fatal.
	if version, err := drv.Version(); err != nil {
		glog.Warningf("muscle: %s driver: version read failed: %v", name, err)
	} else {
		glog.Infof("muscle: %s driver: version 0x%02x", name, version)
	}
	if status, err := drv.ReadStatus(); err != nil {
		glog.Warningf("muscle: %s driver: status read failed: %v", name, err)
	} else if !status.OK() {
		glog.Warningf("muscle: %s driver: status %+v", name, status)
	}
	return nil
}

// AddToLoop implements framework.LoopAdder.
func (r *Rig) AddToLoop(loop *framework.Loop) {
	r.Server.AddToLoop(loop)
}

// Close stops the motors, disables the drivers and releases the
// serial ports and GPIO mapping.
func (r *Rig) Close() error {
	var errs framework.AggregatedError
	if r.Engine != nil {
		r.Engine.Disable()
	}
	for _, c := range r.closers {
		errs.Add(c.Close())
	}
	if r.closeGPIO != nil {
		errs.Add(r.closeGPIO())
	}
	return errs.Aggregate()
}
