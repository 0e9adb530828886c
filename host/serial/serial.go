// Package serial opens the UART a trace-enabled firmware streams to.
package serial

import (
	"io"
)

// Port represents a serial port. Tests substitute an in-memory stream.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate; must match the firmware's UART setting
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultBaud is the UART rate the firmware configures for trace output
const DefaultBaud = 115200

// DefaultConfig returns the configuration for a trace-enabled board
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100,
	}
}
