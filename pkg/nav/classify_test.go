package nav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	const d = 35.0
	for _, c := range []struct {
		name   string
		angle  float64
		dist   float64
		action Action
	}{
		{"clear ahead", 0, 2 * d, Straight},
		{"clear slightly off", 10, 2 * d, Straight},
		{"slight correction", 30, 2 * d, SlightCorrection},
		{"slight correction right", -30, 2 * d, SlightCorrection},
		{"turn while moving", 50, 2 * d, TurnWhileMoving},
		{"turn while moving right", -90, 1.5 * d, TurnWhileMoving},
		{"sharp turn", 90, 0.8 * d, SharpTurn},
		{"blocked", 0, 0.5 * d, EmergencyStop},
		{"blocked everywhere", 60, 0.2 * d, EmergencyStop},

		// Threshold boundaries: strict on the low side.
		{"exactly 0.7D", 0, 0.7 * d, SharpTurn},
		{"exactly D", 90, d, TurnWhileMoving},
		{"exactly 45 degrees", 45, 2 * d, SlightCorrection},
		{"exactly -45 degrees", -45, 2 * d, SlightCorrection},
		{"exactly 15 degrees", 15, 2 * d, Straight},
		{"exactly -15 degrees", -15, 2 * d, Straight},
	} {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.action, Classify(c.angle, c.dist, d))
		})
	}
}

func TestActionString(t *testing.T) {
	require.Equal(t, "emergency-stop", EmergencyStop.String())
	require.Equal(t, "straight", Straight.String())
	require.Equal(t, "action(99)", Action(99).String())
}
