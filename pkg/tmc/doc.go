// Package tmc drives TMC2209 stepper motor drivers over their
// single-wire UART register interface.
package tmc

// The driver speaks a fixed-format datagram protocol on a shared
// differential pair: every register access is a sync byte, a slave
// address, the register address (with the write bit for writes), an
// optional 32-bit big-endian payload and a trailing CRC-8. The CRC
// must match bit-for-bit on both ends; a datagram failing the check
// is discarded by the receiver, so a failed write is simply silent.
//
// The transport is usually wired write-only (PDN_UART through a single
// resistor). All high-level configuration therefore masks fields into
// known power-on default register values instead of reading the live
// register first. This is correct only as long as nothing else has
// reconfigured the driver since power-on.
