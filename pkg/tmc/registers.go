package tmc

// Register addresses (7-bit).
const (
	RegGCONF      byte = 0x00
	RegGSTAT      byte = 0x01
	RegIFCNT      byte = 0x02
	RegSLAVECONF  byte = 0x03
	RegIOIN       byte = 0x06
	RegFACTORY    byte = 0x08
	RegIHOLDIRUN  byte = 0x10
	RegTPOWERDOWN byte = 0x11
	RegTSTEP      byte = 0x12
	RegTPWMTHRS   byte = 0x13
	RegTCOOLTHRS  byte = 0x14
	RegSGTHRS     byte = 0x40
	RegSGRESULT   byte = 0x41
	RegMSCNT      byte = 0x6A
	RegCHOPCONF   byte = 0x6C
	RegDRVSTATUS  byte = 0x6F
	RegPWMCONF    byte = 0x70
)

// GCONF bit positions.
const (
	gconfIScaleAnalog   = 0
	gconfInternalRsense = 1
	gconfEnSpreadCycle  = 2
	gconfShaft          = 3
	gconfIndexOTPW      = 4
	gconfIndexStep      = 5
	gconfPDNDisable     = 6
	gconfMStepRegSelect = 7
	gconfMultistepFilt  = 8
)

// CHOPCONF bit positions.
const (
	chopconfTOFF   = 0  // 4 bits
	chopconfHSTRT  = 4  // 3 bits
	chopconfHEND   = 7  // 4 bits
	chopconfTBL    = 15 // 2 bits
	chopconfMRES   = 24 // 4 bits
	chopconfIntpol = 28
)

// IHOLD_IRUN bit positions.
const (
	iholdIrunIHold      = 0  // 5 bits
	iholdIrunIRun       = 8  // 5 bits
	iholdIrunIHoldDelay = 16 // 4 bits
)

// GSTAT flag bits.
const (
	GStatReset     uint32 = 1 << 0
	GStatDriverErr uint32 = 1 << 1
	GStatUndervolt uint32 = 1 << 2
)

// Power-on default register values. Masked writes are computed against
// these, never against a live read; see the package comment for the
// constraint this imposes.
const (
	DefaultGCONF    uint32 = 0x000000C0
	DefaultCHOPCONF uint32 = 0x10000053
)

// mresBits maps a microstep resolution to its MRES field value.
// 1 is full-step.
var mresBits = map[int]uint32{
	256: 0,
	128: 1,
	64:  2,
	32:  3,
	16:  4,
	8:   5,
	4:   6,
	2:   7,
	1:   8,
}

// DefaultMicrosteps is used when an unsupported resolution is
// requested. Misconfiguration degrades to a sane gait instead of
// halting the robot.
const DefaultMicrosteps = 16

// MResFor returns the MRES field value for a microstep resolution,
// falling back to DefaultMicrosteps for unsupported inputs. The
// mapping is total on purpose.
func MResFor(microsteps int) uint32 {
	if v, ok := mresBits[microsteps]; ok {
		return v
	}
	return mresBits[DefaultMicrosteps]
}
