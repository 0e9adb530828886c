//go:build stm32f103

package main

import (
	"device/stm32"
	"machine"

	"ticktoggle/core"
	"ticktoggle/targets/output"
)

// board is the blue pill: the PC13 LED as output and TIM2 as countdown.
// The LED is wired active-low, so it lights while the pin is Low.
type board struct {
	enableIRQ  func()
	pinTaken   bool
	timerTaken bool
}

// ConfigureClocks reports the tree the runtime set up at boot: SYSCLK at
// 72 MHz from the HSE PLL, APB1 at half that. Timers on APB1 run at twice
// PCLK1 whenever its prescaler is not 1.
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
	stm32.RCC.APB1ENR.SetBits(stm32.RCC_APB1ENR_TIM2EN)
	return &tim2{clock: clocks.TimerClk}, nil
}

func (b *board) EnableIRQ() {
	if b.enableIRQ != nil {
		b.enableIRQ()
	}
}
