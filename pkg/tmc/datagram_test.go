package tmc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCrc8Stable(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"zeroes", []byte{0, 0, 0}},
		{"sync only", []byte{0x05}},
		{"write header", []byte{0x05, 0x00, 0x8c}},
		{"full payload", []byte{0x05, 0x00, 0x8c, 0x10, 0x00, 0x00, 0x53}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, Crc8(tc.data), Crc8(tc.data))
		})
	}
}

func TestCrc8BitFlip(t *testing.T) {
	data := []byte{0x05, 0x01, 0x8c, 0x10, 0x00, 0x00, 0x53}
	orig := Crc8(data)
	for i := range data {
		for bit := 0; bit < 8; bit++ {
			flipped := make([]byte, len(data))
			copy(flipped, data)
			flipped[i] ^= 1 << bit
			require.NotEqual(t, orig, Crc8(flipped),
				"flip byte %d bit %d must change the CRC", i, bit)
		}
	}
}

func TestEncodeWriteLayout(t *testing.T) {
	d := EncodeWrite(0, RegCHOPCONF, 0x10000053)
	require.Len(t, d, WriteLen)
	require.Equal(t, SyncByte, d[0])
	require.Equal(t, byte(0), d[1])
	require.Equal(t, RegCHOPCONF|0x80, d[2])
	require.Equal(t, []byte{0x10, 0x00, 0x00, 0x53}, d[3:7])
	require.Equal(t, Crc8(d[:7]), d[7])
}

func TestEncodeReadLayout(t *testing.T) {
	d := EncodeRead(3, RegGSTAT)
	require.Len(t, d, ReadLen)
	require.Equal(t, []byte{SyncByte, 3, RegGSTAT}, d[:3])
	require.Equal(t, Crc8(d[:3]), d[3])
}

func TestWriteRoundTrip(t *testing.T) {
	testCases := []struct {
		name     string
		register byte
		value    uint32
	}{
		{"zero", 0x00, 0},
		{"ihold irun", RegIHOLDIRUN, 0x00041f10},
		{"chopconf default", RegCHOPCONF, 0x10000053},
		{"max value", 0x7f, 0xffffffff},
		{"single byte", RegTPWMTHRS, 100},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			register, value, err := DecodeWrite(EncodeWrite(0, tc.register, tc.value))
			require.NoError(t, err)
			require.Equal(t, tc.register, register)
			require.Equal(t, tc.value, value)
		})
	}
}

func TestDecodeReply(t *testing.T) {
	good := EncodeWrite(0xff, RegDRVSTATUS, 0x80000000)
	register, value, err := DecodeReply(good)
	require.NoError(t, err)
	require.Equal(t, RegDRVSTATUS, register)
	require.Equal(t, uint32(0x80000000), value)

	corrupt := make([]byte, len(good))
	copy(corrupt, good)
	corrupt[4] ^= 0x40
	_, _, err = DecodeReply(corrupt)
	require.Equal(t, ErrBadCRC, err)

	_, _, err = DecodeReply(good[:7])
	require.Equal(t, ErrBadReplyLen, err)
}
