package tmc

import (
	"io"
	"math"
	"time"

	"github.com/golang/glog"
)

// Driver configures one TMC2209 on a UART bus.
//
// Writes are fire-and-forget: the UART layer gives no acknowledgement,
// so a configuration is "sent", never "confirmed". Reads (Status,
// Version) are a separate diagnostic path and only work when the RX
// side of the transport is wired.
type Driver struct {
	// SettleDelay is waited after every datagram so the driver has
	// applied the value before the next one arrives.
	SettleDelay time.Duration

	uart  io.ReadWriter
	slave byte
}

// DefaultSettleDelay matches the pacing the drivers need at 115200 baud.
const DefaultSettleDelay = 30 * time.Millisecond

// NewDriver creates a Driver for the slave address on the UART.
func NewDriver(uart io.ReadWriter, slave byte) *Driver {
	return &Driver{
		SettleDelay: DefaultSettleDelay,
		uart:        uart,
		slave:       slave,
	}
}

// WriteRegister sends a register write datagram and waits the settle
// delay. The transport may fail; the driver applying the value cannot
// be observed here.
func (d *Driver) WriteRegister(register byte, value uint32) error {
	if _, err := d.uart.Write(EncodeWrite(d.slave, register, value)); err != nil {
		return err
	}
	d.settle()
	return nil
}

// ReadRegister performs a CRC-validated register read. Any framing or
// checksum fault fails the read; no value is ever fabricated.
func (d *Driver) ReadRegister(register byte) (uint32, error) {
	if _, err := d.uart.Write(EncodeRead(d.slave, register)); err != nil {
		return 0, err
	}
	d.settle()
	buf := make([]byte, WriteLen)
	if _, err := io.ReadFull(d.uart, buf); err != nil {
		return 0, err
	}
	_, value, err := DecodeReply(buf)
	return value, err
}

func (d *Driver) settle() {
	if d.SettleDelay > 0 {
		time.Sleep(d.SettleDelay)
	}
}

// currentScale maps a 0..100 percentage onto the 0..31 current scale.
func currentScale(pct int) uint32 {
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}
	return uint32(math.Round(31 * float64(pct) / 100))
}

// holdDelayDefault is a moderate IHOLDDELAY unless callers override
// via SetRunCurrentHoldDelay.
const holdDelayDefault = 4

// SetRunCurrent sets run (IRUN) and hold (IHOLD) current as 0..100
// percentages of the full scale.
func (d *Driver) SetRunCurrent(runPct, holdPct int) error {
	return d.SetRunCurrentHoldDelay(runPct, holdPct, holdDelayDefault)
}

// SetRunCurrentHoldDelay is SetRunCurrent with an explicit IHOLDDELAY
// (0..15).
func (d *Driver) SetRunCurrentHoldDelay(runPct, holdPct, holdDelay int) error {
	if holdDelay < 0 {
		holdDelay = 0
	} else if holdDelay > 15 {
		holdDelay = 15
	}
	value := uint32(holdDelay)<<iholdIrunIHoldDelay |
		currentScale(runPct)<<iholdIrunIRun |
		currentScale(holdPct)<<iholdIrunIHold
	glog.V(4).Infof("driver %d: IHOLD_IRUN = %#08x", d.slave, value)
	return d.WriteRegister(RegIHOLDIRUN, value)
}

// SetMicrosteps sets the microstep resolution. Supported values are
// 256, 128, 64, 32, 16, 8, 4, 2 and 1 (full-step); anything else
// falls back to 16 rather than failing.
func (d *Driver) SetMicrosteps(microsteps int) error {
	value := DefaultCHOPCONF
	value &^= uint32(0b1111) << chopconfMRES
	value |= MResFor(microsteps) << chopconfMRES
	return d.WriteRegister(RegCHOPCONF, value)
}

// EnableStealthChop switches the silent chopper mode on or off.
func (d *Driver) EnableStealthChop(enable bool) error {
	value := DefaultGCONF
	if enable {
		value &^= uint32(1) << gconfEnSpreadCycle
	} else {
		value |= uint32(1) << gconfEnSpreadCycle
	}
	return d.WriteRegister(RegGCONF, value)
}

// SetChopperOffTime sets TOFF (0..15, clamped). 0 disables the driver
// stage entirely.
func (d *Driver) SetChopperOffTime(toff int) error {
	if toff < 0 {
		toff = 0
	} else if toff > 15 {
		toff = 15
	}
	value := DefaultCHOPCONF
	value &^= uint32(0b1111) << chopconfTOFF
	value |= uint32(toff) << chopconfTOFF
	return d.WriteRegister(RegCHOPCONF, value)
}

// EnableInterpolation turns microstep interpolation to 256 on or off.
func (d *Driver) EnableInterpolation(enable bool) error {
	value := DefaultCHOPCONF
	if enable {
		value |= uint32(1) << chopconfIntpol
	} else {
		value &^= uint32(1) << chopconfIntpol
	}
	return d.WriteRegister(RegCHOPCONF, value)
}

// EnableUARTControl configures GCONF for register-driven operation
// (PDN pin freed for UART, microstep resolution from MSTEP register).
func (d *Driver) EnableUARTControl() error {
	value := uint32(1)<<gconfPDNDisable | uint32(1)<<gconfMStepRegSelect
	return d.WriteRegister(RegGCONF, value)
}

// SetHybridThreshold sets TPWMTHRS, the velocity above which the
// driver leaves stealthChop for spreadCycle.
func (d *Driver) SetHybridThreshold(threshold uint32) error {
	return d.WriteRegister(RegTPWMTHRS, threshold)
}

// Status holds the decoded GSTAT flags.
type Status struct {
	Reset        bool
	DriverError  bool
	Undervoltage bool
}

// OK reports no fault flags set.
func (s Status) OK() bool {
	return !s.Reset && !s.DriverError && !s.Undervoltage
}

// ReadStatus reads and decodes GSTAT. Diagnostic only; requires a
// bidirectional transport.
func (d *Driver) ReadStatus() (Status, error) {
	value, err := d.ReadRegister(RegGSTAT)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Reset:        value&GStatReset != 0,
		DriverError:  value&GStatDriverErr != 0,
		Undervoltage: value&GStatUndervolt != 0,
	}, nil
}

// Version reads the silicon version from IOIN. Diagnostic only.
func (d *Driver) Version() (byte, error) {
	value, err := d.ReadRegister(RegIOIN)
	if err != nil {
		return 0, err
	}
	return byte(value >> 24), nil
}
