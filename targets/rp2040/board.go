//go:build rp2040

package main

import (
	"fmt"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"ticktoggle/core"
	"ticktoggle/targets/output"
)

// board is the Pico: the GP25 LED as output and a PIO0 state machine as
// countdown
type board struct {
	enableIRQ  func()
	pinTaken   bool
	timerTaken bool
}

// ConfigureClocks reports the 125 MHz system clock the runtime set up. PIO
// state machines divide it down.
func (b *board) ConfigureClocks() core.Clocks {
	sysclk := machine.CPUFrequency()
	return core.Clocks{SysClk: sysclk, TimerClk: sysclk}
}

func (b *board) TakePin() (core.OutputPin, error) {
	if b.pinTaken {
		return nil, core.ErrPeripheralTaken
	}
	b.pinTaken = true
	return output.New(machine.LED), nil
}

func (b *board) TakeTimer(clocks core.Clocks) (core.CountdownTimer, error) {
	if b.timerTaken {
		return nil, core.ErrPeripheralTaken
	}
	b.timerTaken = true

	t, err := newPIOTimer(rp2pio.PIO0, clocks.TimerClk)
	if err != nil {
		return nil, fmt.Errorf("pio countdown: %w", err)
	}
	return t, nil
}

func (b *board) EnableIRQ() {
	if b.enableIRQ != nil {
		b.enableIRQ()
	}
}
