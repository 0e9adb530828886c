package hostboard

import (
	"context"
	"time"

	"ticktoggle/core"
)

// Run drives the toggle loop on b until ctx is done or the simulated CPU
// halts. In interrupt mode the calling goroutine is the main context and the
// controller's dispatcher is the interrupt context.
func Run(ctx context.Context, cfg Config, b *Board) error {
	coreCfg, err := cfg.Core()
	if err != nil {
		return err
	}

	start := b.clock.Now()
	core.SetClockSource(func() uint32 {
		return uint32(b.clock.Since(start) / time.Microsecond)
	})

	if coreCfg.Mode == core.ModePolling {
		err := core.RunPolling(ctx, b, coreCfg)
		drainTrace(cfg.Trace)
		return err
	}

	var pins core.Slot[core.OutputPin]
	var timers core.Slot[core.CountdownTimer]
	handler := core.NewHandler(&pins, &timers)
	b.ctrl.Register(IRQTimer, handler.Handle)

	if err := core.Setup(b, coreCfg, &pins, &timers); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, b.ctrl.Close)
	defer stop()

	core.IdleDrain(ctx, b.ctrl, func() {
		drainTrace(cfg.Trace)
		if b.ctrl.Halted() {
			cancel()
		}
	})

	if halt := b.ctrl.HaltReason(); halt != nil {
		return halt
	}
	return context.Cause(ctx)
}

func drainTrace(enabled bool) {
	if !enabled {
		return
	}
	core.DrainTrace(func(evt core.TraceEvent) {
		core.DebugPrintln(core.FormatTrace(evt))
	})
}
