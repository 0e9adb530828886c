package serial

import (
	"errors"
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// TarmPort wraps a github.com/tarm/serial port
type TarmPort struct {
	port *serial.Port
	cfg  *Config
}

// Open opens a serial port
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Baud <= 0 {
		return nil, fmt.Errorf("invalid baud rate %d", cfg.Baud)
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	return &TarmPort{
		port: port,
		cfg:  cfg,
	}, nil
}

// Read reads data from the serial port. With a read timeout configured an
// idle line yields (0, io.EOF); callers following a live stream retry.
func (p *TarmPort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

// Write writes data to the serial port
func (p *TarmPort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close closes the serial port
func (p *TarmPort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

// Flush discards data received but not yet read
func (p *TarmPort) Flush() error {
	return p.port.Flush()
}

// Device returns the path the port was opened on
func (p *TarmPort) Device() string {
	return p.cfg.Device
}
