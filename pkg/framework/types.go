package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Message is an opaque item posted to the control loop and consumed
// by controllers during an iteration.
type Message interface{}

// Controller defines one piece of controlling logic executed every
// loop iteration.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc is the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// ControlContext provides the context of the current loop iteration.
type ControlContext interface {
	// Context retrieves context.Context of the loop.
	Context() context.Context
	// Time is the start time of this iteration.
	Time() time.Time
	// ProcessMessages walks the messages collected before this
	// iteration started. The callback returns true to consume a
	// message; unconsumed messages are retained for the next
	// iteration.
	ProcessMessages(func(Message) bool)

	LoopControl
}

// Stages of one loop iteration, executed in order. Sensors run first,
// actuators after the deciding controllers, with a trailing stage for
// cleanup such as rejecting unhandled messages.
const (
	StageSense int = iota
	StageControl
	StageActuate
	StageIdle

	stageCount
)

// LoopControl exposes access to the controlling loop.
type LoopControl interface {
	// PostMessage enqueues a message for the next iteration.
	PostMessage(Message)
	// TriggerNext schedules the next iteration immediately after
	// the current one instead of waiting for the tick.
	TriggerNext()
}
