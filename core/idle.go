package core

import "context"

// Waiter suspends the CPU until any interrupt occurs
type Waiter interface {
	WaitForInterrupt()
}

// Idle is the resting state of the main context after Setup. Each iteration
// suspends until an interrupt has been serviced and finds nothing to do.
// It returns only when ctx is cancelled; firmware passes
// context.Background() and never returns.
func Idle(ctx context.Context, w Waiter) {
	IdleDrain(ctx, w, nil)
}

// IdleDrain is Idle with a hook run after every wake-up. Trace builds use it
// to stream the trace ring; the hook must not touch the toggle loop's
// peripherals.
func IdleDrain(ctx context.Context, w Waiter, drain func()) {
	done := ctx.Done()
	for {
		if done != nil {
			select {
			case <-done:
				return
			default:
			}
		}
		w.WaitForInterrupt()
		if drain != nil {
			drain()
		}
	}
}
