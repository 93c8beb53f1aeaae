package nav

import "fmt"

// Action is a navigation decision class.
type Action int

const (
	// EmergencyStop means every bearing is blocked closer than
	// 0.7x the obstacle distance (or the whole sweep was invalid):
	// stop, pause, back out.
	EmergencyStop Action = iota
	// SharpTurn means the best bearing clears 0.7x but not the full
	// obstacle distance: pivot toward it before moving.
	SharpTurn
	// TurnWhileMoving means the clear bearing is more than 45 off
	// center.
	TurnWhileMoving
	// SlightCorrection means the clear bearing is between 15 and 45
	// off center.
	SlightCorrection
	// Straight means the path ahead is clear.
	Straight
)

func (a Action) String() string {
	switch a {
	case EmergencyStop:
		return "emergency-stop"
	case SharpTurn:
		return "sharp-turn"
	case TurnWhileMoving:
		return "turn-while-moving"
	case SlightCorrection:
		return "slight-correction"
	case Straight:
		return "straight"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Classify maps the best sweep result onto an action. bestAngle is
// degrees off center, maxDist and obstacleDist centimeters. Thresholds
// are strict on the low side: exactly 0.7x the obstacle distance is a
// sharp turn, exactly the obstacle distance enters the moving-turn
// region, exactly 45 degrees is a slight correction and exactly 15 is
// straight.
func Classify(bestAngle, maxDist, obstacleDist float64) Action {
	switch {
	case maxDist < 0.7*obstacleDist:
		return EmergencyStop
	case maxDist < obstacleDist:
		return SharpTurn
	case abs(bestAngle) > 45:
		return TurnWhileMoving
	case abs(bestAngle) > 15:
		return SlightCorrection
	}
	return Straight
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
