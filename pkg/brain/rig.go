// Package brain assembles the sensing-and-deciding half of the rover:
// the muscle link client, the pan-mounted distance sensor and the
// navigator driving them.
package brain

import (
	"context"
	"fmt"
	"io"

	"github.com/dreampi/rover.go/pkg/framework"
	"github.com/dreampi/rover.go/pkg/link"
	"github.com/dreampi/rover.go/pkg/motion"
	"github.com/dreampi/rover.go/pkg/nav"
)

// Rig is the assembled brain hardware.
type Rig struct {
	Client    *link.Client
	Pan       *motion.PanAxis
	Sensor    nav.DistanceSensor
	Navigator *nav.Navigator

	port      io.Closer
	closeGPIO func() error
}

// Setup maps the GPIO, binds the pan head and sensor and opens the
// muscle link.
func (c *Config) Setup(navConfig *nav.Config) (*Rig, error) {
	closeGPIO, err := motion.OpenGPIO()
	if err != nil {
		return nil, fmt.Errorf("brain: map gpio: %w", err)
	}

	pins := motion.OutputPins(c.PanPins[0], c.PanPins[1], c.PanPins[2], c.PanPins[3])
	pan := motion.NewPanAxis(motion.NewPhaseMotor("pan", motion.HalfStep, pins))
	pan.Inverted = c.PanInverted

	port, err := link.OpenSerial(c.LinkDevice, c.LinkBaudRate)
	if err != nil {
		closeGPIO()
		return nil, err
	}

	rig := &Rig{
		Client:    link.NewClient(port),
		Pan:       pan,
		Sensor:    nav.NewUltrasonic(c.TrigPin, c.EchoPin),
		port:      port,
		closeGPIO: closeGPIO,
	}
	rig.Navigator = nav.NewNavigator(
		navConfig, nav.NewSweeper(navConfig, pan, rig.Sensor), pan, rig.Client)
	return rig, nil
}

// Name implements framework.Named.
func (r *Rig) Name() string {
	return "brain.Rig"
}

// Run implements framework.Runnable. The link reader runs on a
// context that outlives ctx: the navigator's parking STOP still needs
// a live port, so the reader is stopped only after the navigator has
// returned.
func (r *Rig) Run(ctx context.Context) error {
	linkCtx, stopLink := context.WithCancel(context.Background())
	defer stopLink()
	linkCh := make(chan error, 1)
	go func() { linkCh <- r.Client.Run(linkCtx) }()

	var errs framework.AggregatedError
	errs.Add(r.Navigator.Run(ctx))
	stopLink()
	if err := <-linkCh; err != context.Canceled {
		errs.Add(err)
	}
	return errs.Aggregate()
}

// Close releases the pan coils, the serial port and the GPIO mapping.
func (r *Rig) Close() error {
	var errs framework.AggregatedError
	r.Pan.Release()
	errs.Add(r.port.Close())
	if r.closeGPIO != nil {
		errs.Add(r.closeGPIO())
	}
	return errs.Aggregate()
}
