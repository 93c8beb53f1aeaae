package tmc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// busRecorder captures write datagrams and serves canned read replies.
type busRecorder struct {
	written bytes.Buffer
	reply   []byte
}

func (b *busRecorder) Write(p []byte) (int, error) {
	return b.written.Write(p)
}

func (b *busRecorder) Read(p []byte) (int, error) {
	n := copy(p, b.reply)
	b.reply = b.reply[n:]
	return n, nil
}

func (b *busRecorder) lastWrite(t *testing.T) (register byte, value uint32) {
	t.Helper()
	data := b.written.Bytes()
	require.GreaterOrEqual(t, len(data), WriteLen)
	register, value, err := DecodeWrite(data[len(data)-WriteLen:])
	require.NoError(t, err)
	return register, value
}

func newTestDriver(slave byte) (*Driver, *busRecorder) {
	bus := &busRecorder{}
	d := NewDriver(bus, slave)
	d.SettleDelay = 0
	return d, bus
}

func TestMicrostepMappingTotal(t *testing.T) {
	for _, microsteps := range []int{256, 128, 64, 32, 16, 8, 4, 2, 1} {
		_, ok := mresBits[microsteps]
		require.True(t, ok, "%d must be supported", microsteps)
	}
	// unsupported inputs degrade to the default, never an error.
	for _, microsteps := range []int{0, -1, 3, 12, 512, 1000} {
		require.Equal(t, uint32(4), MResFor(microsteps), "microsteps=%d", microsteps)
	}
	require.Equal(t, uint32(0), MResFor(256))
	require.Equal(t, uint32(8), MResFor(1))
}

func TestSetMicrosteps(t *testing.T) {
	testCases := []struct {
		name       string
		microsteps int
		mres       uint32
	}{
		{"full step", 1, 8},
		{"sixteenth", 16, 4},
		{"max resolution", 256, 0},
		{"unsupported falls back", 7, 4},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, bus := newTestDriver(0)
			require.NoError(t, d.SetMicrosteps(tc.microsteps))
			register, value := bus.lastWrite(t)
			require.Equal(t, RegCHOPCONF, register)
			require.Equal(t, tc.mres, value>>chopconfMRES&0b1111)
			// non-MRES fields keep the power-on default.
			mask := ^(uint32(0b1111) << chopconfMRES)
			require.Equal(t, DefaultCHOPCONF&mask, value&mask)
		})
	}
}

func TestSetRunCurrent(t *testing.T) {
	testCases := []struct {
		name            string
		runPct, holdPct int
		irun, ihold     uint32
	}{
		{"full", 100, 100, 31, 31},
		{"half hold", 100, 50, 31, 16},
		{"zero", 0, 0, 0, 0},
		{"clamped high", 150, 120, 31, 31},
		{"clamped low", -10, -1, 0, 0},
		{"rounding", 50, 26, 16, 8},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, bus := newTestDriver(0)
			require.NoError(t, d.SetRunCurrent(tc.runPct, tc.holdPct))
			register, value := bus.lastWrite(t)
			require.Equal(t, RegIHOLDIRUN, register)
			require.Equal(t, tc.irun, value>>iholdIrunIRun&0b11111)
			require.Equal(t, tc.ihold, value>>iholdIrunIHold&0b11111)
			require.Equal(t, uint32(holdDelayDefault), value>>iholdIrunIHoldDelay&0b1111)
		})
	}
}

func TestEnableStealthChop(t *testing.T) {
	d, bus := newTestDriver(0)
	require.NoError(t, d.EnableStealthChop(true))
	_, value := bus.lastWrite(t)
	require.Zero(t, value&(1<<gconfEnSpreadCycle))

	require.NoError(t, d.EnableStealthChop(false))
	_, value = bus.lastWrite(t)
	require.NotZero(t, value&(1<<gconfEnSpreadCycle))
}

func TestSetChopperOffTime(t *testing.T) {
	testCases := []struct {
		name string
		toff int
		want uint32
	}{
		{"typical", 3, 3},
		{"disable", 0, 0},
		{"clamp high", 99, 15},
		{"clamp low", -5, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, bus := newTestDriver(0)
			require.NoError(t, d.SetChopperOffTime(tc.toff))
			register, value := bus.lastWrite(t)
			require.Equal(t, RegCHOPCONF, register)
			require.Equal(t, tc.want, value&0b1111)
		})
	}
}

func TestEnableInterpolation(t *testing.T) {
	d, bus := newTestDriver(0)
	require.NoError(t, d.EnableInterpolation(true))
	_, value := bus.lastWrite(t)
	require.NotZero(t, value&(1<<chopconfIntpol))

	require.NoError(t, d.EnableInterpolation(false))
	_, value = bus.lastWrite(t)
	require.Zero(t, value&(1<<chopconfIntpol))
}

func TestReadStatus(t *testing.T) {
	d, bus := newTestDriver(2)
	bus.reply = EncodeWrite(0xff, RegGSTAT, GStatReset|GStatUndervolt)
	status, err := d.ReadStatus()
	require.NoError(t, err)
	require.True(t, status.Reset)
	require.False(t, status.DriverError)
	require.True(t, status.Undervoltage)
	require.False(t, status.OK())

	// request carried the slave address.
	require.Equal(t, byte(2), bus.written.Bytes()[1])
}

func TestReadStatusBadCRC(t *testing.T) {
	d, bus := newTestDriver(0)
	reply := EncodeWrite(0xff, RegGSTAT, 0)
	reply[7] ^= 0xff
	bus.reply = reply
	_, err := d.ReadStatus()
	require.Equal(t, ErrBadCRC, err)
}

func TestVersion(t *testing.T) {
	d, bus := newTestDriver(0)
	bus.reply = EncodeWrite(0xff, RegIOIN, 0x21000041)
	version, err := d.Version()
	require.NoError(t, err)
	require.Equal(t, byte(0x21), version)
}
