package motion

import (
	"time"
)

// Direction of a single step.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// Motor is one stepper axis. Advance moves exactly one step in the
// given direction and Release de-energizes the outputs without losing
// track of position.
type Motor interface {
	Name() string
	Advance(dir Direction)
	Release()
}

// PhaseMotor drives a unipolar stepper (through a ULN-style darlington
// array) by walking a coil excitation sequence. The sequence cursor is
// the only motion state: stopping leaves it in place so the next burst
// continues from a valid phase.
type PhaseMotor struct {
	name   string
	pins   []Pin
	seq    Sequence
	cursor int
}

func NewPhaseMotor(name string, seq Sequence, pins []Pin) *PhaseMotor {
	if len(pins) != coilPins {
		panic("motion: phase motor needs exactly 4 coil pins")
	}
	return &PhaseMotor{name: name, pins: pins, seq: seq}
}

func (m *PhaseMotor) Name() string { return m.name }

// Cursor reports the current position in the coil sequence.
func (m *PhaseMotor) Cursor() int { return m.cursor }

func (m *PhaseMotor) Advance(dir Direction) {
	n := len(m.seq)
	m.cursor = ((m.cursor+int(dir))%n + n) % n
	m.writePhase()
}

func (m *PhaseMotor) writePhase() {
	v := m.seq[m.cursor]
	for i := 0; i < coilPins; i++ {
		if v&1 == 0 {
			m.pins[i].Low()
		} else {
			m.pins[i].High()
		}
		v >>= 1
	}
}

// Release drops all coils. The cursor is untouched.
func (m *PhaseMotor) Release() {
	for _, p := range m.pins {
		p.Low()
	}
}

// StepDirMotor drives a bipolar stepper through a STEP/DIR driver such
// as the TMC2209. The driver counts rising edges on the step line, so
// Advance sets the direction line and emits one pulse of PulseWidth.
type StepDirMotor struct {
	// PulseWidth is the high time of a step pulse.
	PulseWidth time.Duration

	name     string
	step     Pin
	dir      Pin
	inverted bool
}

// DefaultPulseWidth suits the TMC2209 at the step rates used here.
const DefaultPulseWidth = time.Millisecond

// NewStepDirMotor binds a step and direction pin pair. inverted flips
// the meaning of Forward for motors mounted mirror-image.
func NewStepDirMotor(name string, step, dir Pin, inverted bool) *StepDirMotor {
	return &StepDirMotor{
		PulseWidth: DefaultPulseWidth,
		name:       name,
		step:       step,
		dir:        dir,
		inverted:   inverted,
	}
}

func (m *StepDirMotor) Name() string { return m.name }

func (m *StepDirMotor) Advance(dir Direction) {
	fwd := dir == Forward
	if m.inverted {
		fwd = !fwd
	}
	if fwd {
		m.dir.High()
	} else {
		m.dir.Low()
	}
	m.step.High()
	time.Sleep(m.PulseWidth)
	m.step.Low()
}

func (m *StepDirMotor) Release() {
	m.step.Low()
}
