//go:build rp2040

package main

import (
	"fmt"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
	"periph.io/x/conn/v3/physic"

	"ticktoggle/core"
)

const (
	// countdownHz is the state machine clock. At 2 kHz a 1 Hz period is
	// exactly 2000 cycles and the divider fits in 16 bits from 125 MHz.
	countdownHz = 2000

	// countdownOverhead is the cycles per period spent outside the
	// decrement loop: mov, the final jmp fall-through, irq
	countdownOverhead = 3

	// countdownFlag is the PIO IRQ flag raised on expiry; flags 0-3 route
	// to the system interrupt lines
	countdownFlag = 0
)

// countdownProgram reloads X from the period register and decrements it to
// zero, raising countdownFlag each time round. It runs X+3 cycles per lap.
func countdownProgram() []uint16 {
	return []uint16{
		rp2pio.EncodePull(false, true),                       // 0: pull block
		rp2pio.EncodeMov(rp2pio.SrcDestX, rp2pio.SrcDestOSR), // 1: mov x, osr (wrap target)
		rp2pio.EncodeJmp(2, rp2pio.JmpXNZeroDec),             // 2: jmp x--, 2
		rp2pio.EncodeIRQSet(false, countdownFlag),            // 3: irq set 0 (wrap)
	}
}

// pioTimer is a periodic countdown on a PIO state machine
type pioTimer struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	offset uint8
	sysHz  uint32
}

func newPIOTimer(pio *rp2pio.PIO, sysHz uint32) (*pioTimer, error) {
	sm, err := pio.ClaimStateMachine()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrPeripheralTaken, err)
	}

	offset, err := pio.AddProgram(countdownProgram(), -1)
	if err != nil {
		sm.Unclaim()
		return nil, err
	}

	return &pioTimer{
		pio:    pio,
		sm:     sm,
		offset: offset,
		sysHz:  sysHz,
	}, nil
}

func (t *pioTimer) Start(freq physic.Frequency) error {
	cycles, err := core.CyclesPerPeriod(countdownHz, freq)
	if err != nil {
		return err
	}
	if cycles <= countdownOverhead {
		return core.ErrPeriodOutOfRange
	}

	whole, frac, err := rp2pio.ClkDivFromFrequency(countdownHz, t.sysHz)
	if err != nil {
		return core.ErrPeriodOutOfRange
	}

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetWrap(t.offset+1, t.offset+3)
	cfg.SetClkDivIntFrac(whole, frac)

	t.sm.Init(t.offset, cfg)
	t.sm.TxPut(cycles - countdownOverhead)
	t.pio.ClearIRQ(1 << countdownFlag)
	t.sm.SetEnabled(true)
	return nil
}

// Listen routes countdownFlag to PIO0_IRQ_0 (INTE bits 8-11 are the
// state machine flags)
func (t *pioTimer) Listen() {
	t.pio.HW().IRQ_INT[0].E.SetBits(1 << (8 + countdownFlag))
}

func (t *pioTimer) Wait() error {
	if t.pio.GetIRQ()&(1<<countdownFlag) == 0 {
		return core.ErrWouldBlock
	}
	t.pio.ClearIRQ(1 << countdownFlag)
	return nil
}
