package motion

const coilPins = 4

// Sequence is an ordered table of coil excitation patterns. Each entry
// is a 4-bit mask, bit i driving coil pin i.
type Sequence []uint8

// HalfStep interleaves single- and dual-coil patterns for smoother
// motion at half the torque per step.
var HalfStep = Sequence{
	0b0001,
	0b0011,
	0b0010,
	0b0110,
	0b0100,
	0b1100,
	0b1000,
	0b1001,
}

// FullStep energizes two adjacent coils at every position.
var FullStep = Sequence{
	0b0011,
	0b0110,
	0b1100,
	0b1001,
}
