package link

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, c := range []struct {
		line string
		cmd  Command
	}{
		{"FORWARD", Command{Verb: Forward}},
		{"FORWARD 100", Command{Verb: Forward, Steps: 100}},
		{"  REVERSE\t25 ", Command{Verb: Reverse, Steps: 25}},
		{"TURN_LEFT 1", Command{Verb: TurnLeft, Steps: 1}},
		{"SLIGHT_RIGHT 400", Command{Verb: SlightRight, Steps: 400}},
		{"CONTINUOUS_FORWARD", Command{Verb: ContinuousForward}},
		{"CONTINUOUS_SLIGHT_LEFT", Command{Verb: ContinuousSlightLeft}},
		{"STOP", Command{Verb: Stop}},
	} {
		cmd, err := Parse(c.line)
		require.NoError(t, err, c.line)
		require.Equal(t, c.cmd, cmd, c.line)
	}
}

func TestParseRejects(t *testing.T) {
	for _, c := range []struct {
		line string
		err  error
	}{
		{"", ErrEmptyLine},
		{"   ", ErrEmptyLine},
		{"JUMP", ErrUnknownVerb},
		{"forward 10", ErrUnknownVerb},
		{"FORWARD ten", ErrBadMagnitude},
		{"FORWARD 0", ErrBadMagnitude},
		{"FORWARD -5", ErrBadMagnitude},
		{"FORWARD 10 20", ErrTrailingJunk},
		{"STOP 10", ErrTrailingJunk},
		{"CONTINUOUS_FORWARD 10", ErrTrailingJunk},
	} {
		_, err := Parse(c.line)
		require.Error(t, err, c.line)
		require.True(t, errors.Is(err, c.err), "%s: got %v", c.line, err)
	}
}

func TestCommandString(t *testing.T) {
	require.Equal(t, "FORWARD 100", Command{Verb: Forward, Steps: 100}.String())
	require.Equal(t, "STOP", Command{Verb: Stop}.String())
	require.Equal(t, "CONTINUOUS_TURN_LEFT", Command{Verb: ContinuousTurnLeft}.String())
}

func TestContinuousVerbs(t *testing.T) {
	require.True(t, ContinuousForward.Continuous())
	require.True(t, ContinuousSlightRight.Continuous())
	require.False(t, Forward.Continuous())
	require.False(t, Stop.Continuous())
}
