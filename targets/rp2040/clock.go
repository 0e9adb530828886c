//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"

	"ticktoggle/core"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWL = timerBase + 0x28 // Raw timer low word, no latching
)

var timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))

// startHardwareClock timestamps trace events with the 1 MHz system timer,
// which keeps counting while the core sleeps in wfi
func startHardwareClock() {
	core.SetClockSource(timerRAWL.Get)
}
