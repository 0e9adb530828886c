//go:build !tinygo

package core

import "sync"

// State stands in for the saved interrupt mask on regular Go
type State uintptr

// masked is held while "interrupts are disabled". The host interrupt
// dispatcher runs handlers on their own goroutine, so the critical section
// must exclude them for real.
//
// Unlike interrupt.Disable on TinyGo, this does not nest: entering a
// critical section from inside one deadlocks. Code running under it must not
// call the clock source, the debug writer or anything else that may record
// a trace.
var masked sync.Mutex

// disableInterrupts enters the critical section
func disableInterrupts() State {
	masked.Lock()
	return 0
}

// restoreInterrupts leaves the critical section
func restoreInterrupts(state State) {
	masked.Unlock()
}
