package motion

import (
	"math"
	"time"

	"github.com/golang/glog"
)

const (
	// DefaultPanRevolutionSteps is one shaft revolution of a
	// gear-reduced 28BYJ-48 in half-step mode.
	DefaultPanRevolutionSteps = 4096
	// DefaultPanStepDelay keeps the small geared motor within its
	// torque band.
	DefaultPanStepDelay = time.Millisecond
)

// PanAxis turns the distance sensor head to an absolute bearing. Zero
// degrees is straight ahead, positive is left. Position is tracked in
// steps from the startup pose, which is assumed centered.
type PanAxis struct {
	// StepDelay paces the pan motor.
	StepDelay time.Duration
	// RevolutionSteps is the motor's steps per shaft revolution.
	RevolutionSteps int
	// Inverted flips the rotation sense for mirrored mounts.
	Inverted bool

	motor *PhaseMotor
	pos   int
}

func NewPanAxis(motor *PhaseMotor) *PanAxis {
	return &PanAxis{
		StepDelay:       DefaultPanStepDelay,
		RevolutionSteps: DefaultPanRevolutionSteps,
		motor:           motor,
	}
}

// Angle reports the current bearing in degrees.
func (p *PanAxis) Angle() float64 {
	return float64(p.pos) * 360 / float64(p.RevolutionSteps)
}

// MoveTo rotates to the given bearing and blocks until the head is
// there. The move is quantized to whole steps; the residual error is
// under one step and does not accumulate across moves.
func (p *PanAxis) MoveTo(deg float64) {
	target := int(math.Round(deg * float64(p.RevolutionSteps) / 360))
	delta := target - p.pos
	if delta == 0 {
		return
	}
	glog.V(4).Infof("pan: %.1f -> %.1f (%d steps)", p.Angle(), deg, delta)
	dir := Forward
	if (delta < 0) != p.Inverted {
		dir = Backward
	}
	for i := abs(delta); i > 0; i-- {
		p.motor.Advance(dir)
		time.Sleep(p.StepDelay)
	}
	p.pos = target
}

// Center returns the head to straight ahead.
func (p *PanAxis) Center() {
	p.MoveTo(0)
}

// Release drops the pan coils. Gearing holds the head in place.
func (p *PanAxis) Release() {
	p.motor.Release()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
