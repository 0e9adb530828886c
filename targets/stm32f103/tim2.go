//go:build stm32f103

package main

import (
	"device/stm32"

	"periph.io/x/conn/v3/physic"

	"ticktoggle/core"
)

// tim2 is a periodic countdown on TIM2 using the update event
type tim2 struct {
	clock uint32
}

func (t *tim2) Start(freq physic.Frequency) error {
	psc, arr, err := core.Prescale(t.clock, freq)
	if err != nil {
		return err
	}

	tim := stm32.TIM2
	tim.CR1.ClearBits(stm32.TIM_CR1_CEN)
	tim.PSC.Set(psc)
	tim.ARR.Set(arr)
	tim.CNT.Set(0)

	// UG loads PSC and ARR from their preload registers. It raises UIF as a
	// side effect, which must not count as an expiry.
	tim.EGR.SetBits(stm32.TIM_EGR_UG)
	tim.SR.Set(^uint32(stm32.TIM_SR_UIF))

	tim.CR1.SetBits(stm32.TIM_CR1_CEN)
	return nil
}

func (t *tim2) Listen() {
	stm32.TIM2.DIER.SetBits(stm32.TIM_DIER_UIE)
}

func (t *tim2) Wait() error {
	if !stm32.TIM2.SR.HasBits(stm32.TIM_SR_UIF) {
		return core.ErrWouldBlock
	}
	// SR is rc_w0: writing 1 leaves a flag alone
	stm32.TIM2.SR.Set(^uint32(stm32.TIM_SR_UIF))
	return nil
}
