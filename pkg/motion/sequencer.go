package motion

import (
	"sync/atomic"
	"time"

	"github.com/golang/glog"
)

// Turn side for pivot and correction moves.
type Turn int

const (
	TurnLeft Turn = iota
	TurnRight
)

func (t Turn) String() string {
	if t == TurnLeft {
		return "left"
	}
	return "right"
}

const (
	// DefaultStepDelay paces drive steps.
	DefaultStepDelay = time.Millisecond
	// DefaultRevolutionSteps is one output revolution at 200 full
	// steps with 16x microstepping.
	DefaultRevolutionSteps = 3200
)

// Sequencer coordinates the left and right drive motor sets in lock
// step: during a burst every participating motor advances exactly once
// per step interval, so the chassis tracks straight and pivots in
// place. All motion calls block until the burst completes.
type Sequencer struct {
	// StepDelay is the pause after each simultaneous step.
	StepDelay time.Duration
	// RevolutionSteps converts revolutions to step counts.
	RevolutionSteps int

	left   []Motor
	right  []Motor
	enable Pin
	halted atomic.Bool
}

// NewSequencer builds a sequencer over the left and right motor sets.
// enable, when non-nil, is an active-low driver enable line shared by
// the drive motors; pass nil for phase-driven motors.
func NewSequencer(left, right []Motor, enable Pin) *Sequencer {
	return &Sequencer{
		StepDelay:       DefaultStepDelay,
		RevolutionSteps: DefaultRevolutionSteps,
		left:            left,
		right:           right,
		enable:          enable,
	}
}

// Enable asserts the shared driver enable line.
func (s *Sequencer) Enable() {
	if s.enable != nil {
		s.enable.Low()
	}
}

// Disable releases all motors and de-asserts the enable line.
func (s *Sequencer) Disable() {
	s.Stop()
	if s.enable != nil {
		s.enable.High()
	}
}

// Forward advances both sides steps times.
func (s *Sequencer) Forward(steps int) {
	glog.V(4).Infof("motion: forward %d", steps)
	s.burst(Forward, Forward, steps, bothSides)
}

// Reverse backs both sides steps times.
func (s *Sequencer) Reverse(steps int) {
	glog.V(4).Infof("motion: reverse %d", steps)
	s.burst(Backward, Backward, steps, bothSides)
}

// Pivot turns in place by counter-rotating the sides.
func (s *Sequencer) Pivot(t Turn, steps int) {
	glog.V(4).Infof("motion: pivot %s %d", t, steps)
	if t == TurnLeft {
		s.burst(Backward, Forward, steps, bothSides)
	} else {
		s.burst(Forward, Backward, steps, bothSides)
	}
}

// Veer drifts toward the given side while still moving forward by
// stepping the inner side at half the outer rate.
func (s *Sequencer) Veer(t Turn, steps int) {
	glog.V(4).Infof("motion: veer %s %d", t, steps)
	inner := innerLeft
	if t == TurnRight {
		inner = innerRight
	}
	s.burst(Forward, Forward, steps, inner)
}

// Stop aborts any burst in flight and de-energizes every drive output.
// It is safe to call from a goroutine other than the one stepping.
// Phase cursors are preserved so the next burst resumes from a valid
// phase.
func (s *Sequencer) Stop() {
	s.halted.Store(true)
	s.releaseAll()
}

func (s *Sequencer) releaseAll() {
	for _, m := range s.left {
		m.Release()
	}
	for _, m := range s.right {
		m.Release()
	}
}

// Revolutions converts a revolution count to steps.
func (s *Sequencer) Revolutions(n int) int {
	return n * s.RevolutionSteps
}

type gait int

const (
	bothSides gait = iota
	innerLeft
	innerRight
)

func (s *Sequencer) burst(leftDir, rightDir Direction, steps int, g gait) {
	s.halted.Store(false)
	for i := 0; i < steps; i++ {
		if s.halted.Load() {
			// Release here as well: an Advance in flight when Stop
			// released the coils would have re-asserted outputs.
			s.releaseAll()
			return
		}
		if g != innerLeft || i%2 == 0 {
			for _, m := range s.left {
				m.Advance(leftDir)
			}
		}
		if g != innerRight || i%2 == 0 {
			for _, m := range s.right {
				m.Advance(rightDir)
			}
		}
		time.Sleep(s.StepDelay)
	}
}
