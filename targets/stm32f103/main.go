//go:build stm32f103 && !poll

package main

import (
	"context"
	"device/stm32"
	"runtime/interrupt"

	"ticktoggle/core"
	"ticktoggle/targets/firmware"
)

var (
	pinSlot   core.Slot[core.OutputPin]
	timerSlot core.Slot[core.CountdownTimer]
	toggler   = core.NewHandler(&pinSlot, &timerSlot)
)

func handleTIM2(interrupt.Interrupt) {
	toggler.Handle()
}

func main() {
	startTrace()

	irq := interrupt.New(stm32.IRQ_TIM2, handleTIM2)
	b := &board{enableIRQ: irq.Enable}
	if err := core.Setup(b, firmwareConfig(core.ModeInterrupt), &pinSlot, &timerSlot); err != nil {
		core.Fatal(err)
	}

	core.IdleDrain(context.Background(), firmware.WFI{}, traceDrain)
}
