package hostboard

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"

	"ticktoggle/core"
)

// Pin drives a periph.io GPIO line as a core.OutputPin. Until the first Set
// the line is left in whatever state the host put it in.
type Pin struct {
	io gpio.PinIO

	mu         sync.Mutex
	level      core.Level
	configured bool
}

// NewPin wraps a GPIO line without touching it
func NewPin(io gpio.PinIO) *Pin {
	return &Pin{io: io}
}

// Set configures the line as an output and drives it to level
func (p *Pin) Set(level core.Level) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out(level)
}

// Toggle drives the opposite of the last level
func (p *Pin) Toggle() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.configured {
		return fmt.Errorf("pin %s: toggle before configuration: %w", p.io.Name(), core.ErrInvalidConfig)
	}
	return p.out(p.level.Invert())
}

func (p *Pin) out(level core.Level) error {
	if err := p.io.Out(gpio.Level(level)); err != nil {
		return fmt.Errorf("pin %s: %w", p.io.Name(), err)
	}
	p.level = level
	p.configured = true
	return nil
}

// Level returns the level last driven
func (p *Pin) Level() core.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// Configured reports whether the line has been driven at all
func (p *Pin) Configured() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.configured
}

// Name returns the underlying GPIO name
func (p *Pin) Name() string {
	return p.io.Name()
}
