//go:build rp2040

package main

import (
	"context"
	"device/rp"
	"runtime/interrupt"

	"periph.io/x/conn/v3/physic"

	"ticktoggle/core"
	"ticktoggle/targets/firmware"
)

var (
	pinSlot   core.Slot[core.OutputPin]
	timerSlot core.Slot[core.CountdownTimer]
	toggler   = core.NewHandler(&pinSlot, &timerSlot)
)

func handlePIO0(interrupt.Interrupt) {
	toggler.Handle()
}

func main() {
	startTrace()

	cfg := core.Config{
		Frequency:    1 * physic.Hertz,
		InitialLevel: core.Low,
		Mode:         core.ModeInterrupt,
	}

	irq := interrupt.New(rp.IRQ_PIO0_IRQ_0, handlePIO0)
	b := &board{enableIRQ: irq.Enable}
	if err := core.Setup(b, cfg, &pinSlot, &timerSlot); err != nil {
		core.Fatal(err)
	}

	core.IdleDrain(context.Background(), firmware.WFI{}, traceDrain)
}
