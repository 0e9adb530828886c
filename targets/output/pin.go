//go:build tinygo

// Package output drives the toggled line on TinyGo boards through the
// tinygo drivers on/off device.
package output

import (
	"machine"

	"tinygo.org/x/drivers/buzzer"

	"ticktoggle/core"
)

// Pin implements core.OutputPin on a push-pull GPIO
type Pin struct {
	dev buzzer.Device
}

// New configures p as a push-pull output and wraps it. The line level is
// left alone until Set.
func New(p machine.Pin) *Pin {
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &Pin{dev: buzzer.New(p)}
}

// Set drives the line to level
func (p *Pin) Set(level core.Level) error {
	if level {
		return p.dev.On()
	}
	return p.dev.Off()
}

// Toggle inverts the line
func (p *Pin) Toggle() error {
	return p.dev.Toggle()
}

// Level returns the level last driven
func (p *Pin) Level() core.Level {
	return core.Level(p.dev.High)
}
