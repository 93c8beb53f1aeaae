package link

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Verb is a motion request understood by the muscle.
type Verb string

// The complete verb set. Verbs outside this list are rejected with an
// ERR reply, never silently ignored.
const (
	Forward     Verb = "FORWARD"
	Reverse     Verb = "REVERSE"
	TurnLeft    Verb = "TURN_LEFT"
	TurnRight   Verb = "TURN_RIGHT"
	SlightLeft  Verb = "SLIGHT_LEFT"
	SlightRight Verb = "SLIGHT_RIGHT"

	ContinuousForward     Verb = "CONTINUOUS_FORWARD"
	ContinuousTurnLeft    Verb = "CONTINUOUS_TURN_LEFT"
	ContinuousTurnRight   Verb = "CONTINUOUS_TURN_RIGHT"
	ContinuousSlightLeft  Verb = "CONTINUOUS_SLIGHT_LEFT"
	ContinuousSlightRight Verb = "CONTINUOUS_SLIGHT_RIGHT"

	Stop Verb = "STOP"
)

var verbs = map[Verb]bool{
	Forward:               true,
	Reverse:               true,
	TurnLeft:              true,
	TurnRight:             true,
	SlightLeft:            true,
	SlightRight:           true,
	ContinuousForward:     true,
	ContinuousTurnLeft:    true,
	ContinuousTurnRight:   true,
	ContinuousSlightLeft:  true,
	ContinuousSlightRight: true,
	Stop:                  true,
}

// Continuous reports whether the verb latches until superseded instead
// of executing a bounded burst.
func (v Verb) Continuous() bool {
	return strings.HasPrefix(string(v), "CONTINUOUS_")
}

// Parse errors.
var (
	ErrEmptyLine    = errors.New("link: empty command line")
	ErrUnknownVerb  = errors.New("link: unknown verb")
	ErrBadMagnitude = errors.New("link: magnitude is not a positive integer")
	ErrTrailingJunk = errors.New("link: unexpected trailing fields")
)

// Command is one parsed request line. Steps of zero means the verb's
// default magnitude, one wheel revolution. Continuous verbs and STOP
// carry no magnitude.
type Command struct {
	Verb  Verb
	Steps int
}

// Parse interprets a request line.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrEmptyLine
	}
	cmd := Command{Verb: Verb(fields[0])}
	if !verbs[cmd.Verb] {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownVerb, fields[0])
	}
	if len(fields) == 1 {
		return cmd, nil
	}
	if cmd.Verb == Stop || cmd.Verb.Continuous() {
		return Command{}, fmt.Errorf("%w: %q takes no magnitude", ErrTrailingJunk, cmd.Verb)
	}
	if len(fields) > 2 {
		return Command{}, fmt.Errorf("%w: %q", ErrTrailingJunk, line)
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n <= 0 {
		return Command{}, fmt.Errorf("%w: %q", ErrBadMagnitude, fields[1])
	}
	cmd.Steps = n
	return cmd, nil
}

// String renders the request line, without the trailing newline.
func (c Command) String() string {
	if c.Steps > 0 {
		return fmt.Sprintf("%s %d", c.Verb, c.Steps)
	}
	return string(c.Verb)
}
