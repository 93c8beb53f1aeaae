package link

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// DefaultBaudRate matches the muscle's UART configuration.
const DefaultBaudRate = 115200

// OpenSerial opens the serial device carrying the command protocol.
func OpenSerial(device string, baudRate int) (io.ReadWriteCloser, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("link: open %s: %w", device, err)
	}
	return port, nil
}
