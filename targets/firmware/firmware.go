//go:build tinygo && cortexm

// Package firmware holds the pieces every Cortex-M target shares: the
// idle instruction and the trace clock.
package firmware

import (
	"device/arm"
	"time"

	"ticktoggle/core"
)

// WFI suspends the core with the wait-for-interrupt instruction
type WFI struct{}

// WaitForInterrupt sleeps until any enabled interrupt fires
func (WFI) WaitForInterrupt() {
	arm.Asm("wfi")
}

// StartClock timestamps trace events in microseconds since the call
func StartClock() {
	boot := time.Now()
	core.SetClockSource(func() uint32 {
		return uint32(time.Since(boot) / time.Microsecond)
	})
}

// TraceBaud is the UART rate trace builds stream at
const TraceBaud = 115200
