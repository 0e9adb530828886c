package core

import (
	"context"
	"errors"
	"runtime"

	"periph.io/x/conn/v3/physic"
)

// RunPolling initializes the pin and timer for polling mode and toggles
// from the calling context until ctx is done. No slots or interrupts are
// involved: this context owns both handles for its whole life.
func RunPolling(ctx context.Context, b Board, cfg Config) error {
	pin, timer, err := acquire(b, cfg)
	if err != nil {
		return err
	}
	RecordTrace(EvtSetup, levelValue(cfg.InitialLevel), uint32(cfg.Frequency/physic.MilliHertz))
	return Poll(ctx, pin, timer)
}

// Poll toggles the pin and then blocks until the next expiry, in a single
// context. The first toggle happens immediately.
func Poll(ctx context.Context, pin OutputPin, timer CountdownTimer) error {
	var count uint32
	for {
		if err := pin.Toggle(); err != nil {
			return err
		}
		count++
		RecordTrace(EvtToggle, count, levelValue(pin.Level()))

		if err := block(ctx, timer.Wait); err != nil {
			return err
		}
	}
}

// block retries op while it reports ErrWouldBlock
func block(ctx context.Context, op func() error) error {
	done := ctx.Done()
	for {
		err := op()
		if !errors.Is(err, ErrWouldBlock) {
			return err
		}
		if done != nil {
			select {
			case <-done:
				return ctx.Err()
			default:
			}
		}
		runtime.Gosched()
	}
}
