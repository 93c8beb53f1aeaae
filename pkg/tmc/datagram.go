package tmc

import (
	"errors"
	"fmt"
)

// Datagram framing constants.
const (
	SyncByte    byte = 0x05
	writeAccess byte = 0x80

	// WriteLen is the size of a write datagram and of a read reply.
	WriteLen = 8
	// ReadLen is the size of a read request datagram.
	ReadLen = 4
)

var (
	// ErrBadReplyLen indicates a read reply of the wrong size.
	ErrBadReplyLen = errors.New("reply is not 8 bytes")
	// ErrBadCRC indicates a reply failing the checksum; the read
	// produced no value.
	ErrBadCRC = errors.New("reply CRC mismatch")
)

// Crc8 computes the CRC-8 (polynomial 0x07) over data, feeding each
// byte LSB first. Both ends of the bus compute this identically; it is
// the single correctness-critical primitive of the whole protocol.
func Crc8(data []byte) byte {
	var crc byte
	for _, b := range data {
		for i := 0; i < 8; i++ {
			if (crc>>7)^(b&0x01) != 0 {
				crc = (crc << 1) ^ 0x07
			} else {
				crc <<= 1
			}
			b >>= 1
		}
	}
	return crc
}

// EncodeWrite builds the 8-byte write datagram for a register.
func EncodeWrite(slave, register byte, value uint32) []byte {
	d := make([]byte, WriteLen)
	d[0] = SyncByte
	d[1] = slave
	d[2] = (register & 0x7f) | writeAccess
	d[3] = byte(value >> 24)
	d[4] = byte(value >> 16)
	d[5] = byte(value >> 8)
	d[6] = byte(value)
	d[7] = Crc8(d[:7])
	return d
}

// EncodeRead builds the 4-byte read request datagram for a register.
func EncodeRead(slave, register byte) []byte {
	d := make([]byte, ReadLen)
	d[0] = SyncByte
	d[1] = slave
	d[2] = register & 0x7f
	d[3] = Crc8(d[:3])
	return d
}

// DecodeReply validates an 8-byte read reply and extracts the register
// and payload. A CRC mismatch yields ErrBadCRC and no value; corrupt
// data must never be reported as a reading.
func DecodeReply(d []byte) (register byte, value uint32, err error) {
	if len(d) != WriteLen {
		return 0, 0, ErrBadReplyLen
	}
	if Crc8(d[:7]) != d[7] {
		return 0, 0, ErrBadCRC
	}
	register = d[2] & 0x7f
	value = uint32(d[3])<<24 | uint32(d[4])<<16 | uint32(d[5])<<8 | uint32(d[6])
	return register, value, nil
}

// DecodeWrite extracts register and value from a write datagram. Used
// by tests and bus diagnostics.
func DecodeWrite(d []byte) (register byte, value uint32, err error) {
	if len(d) != WriteLen {
		return 0, 0, fmt.Errorf("write datagram is %d bytes, want %d", len(d), WriteLen)
	}
	if Crc8(d[:7]) != d[7] {
		return 0, 0, ErrBadCRC
	}
	return d[2] & 0x7f, uint32(d[3])<<24 | uint32(d[4])<<16 | uint32(d[5])<<8 | uint32(d[6]), nil
}
