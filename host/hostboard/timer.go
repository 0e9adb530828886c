package hostboard

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/physic"

	"ticktoggle/core"
)

// Timer is a periodic countdown driven by a clockwork clock. Periods are
// quantized to ticks of its input clock the way a hardware counter would be.
type Timer struct {
	clock clockwork.Clock
	hz    uint32
	ctrl  *Controller
	irq   IRQ

	mu        sync.Mutex
	state     core.TimerState
	listening bool
	running   bool
	period    time.Duration
	expiries  uint32
	overruns  uint32
	ticker    clockwork.Ticker
	stop      chan struct{}
	wg        sync.WaitGroup
}

// NewTimer creates a stopped timer counting at hz and raising irq on ctrl
func NewTimer(clock clockwork.Clock, hz uint32, ctrl *Controller, irq IRQ) *Timer {
	return &Timer{
		clock: clock,
		hz:    hz,
		ctrl:  ctrl,
		irq:   irq,
	}
}

// Start arms the timer to expire once per period of freq
func (t *Timer) Start(freq physic.Frequency) error {
	ticks, err := core.TimerTicks(t.hz, freq)
	if err != nil {
		return err
	}
	period := time.Duration(ticks) * time.Second / time.Duration(t.hz)
	if period <= 0 {
		return core.ErrPeriodOutOfRange
	}

	t.Stop()

	t.mu.Lock()
	t.state = core.TimerArmed
	t.period = period
	t.running = true
	t.ticker = t.clock.NewTicker(period)
	t.stop = make(chan struct{})
	ticker, stop := t.ticker, t.stop
	t.mu.Unlock()

	t.wg.Add(1)
	go t.run(ticker, stop)
	return nil
}

func (t *Timer) run(ticker clockwork.Ticker, stop chan struct{}) {
	defer t.wg.Done()
	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			t.expire()
		}
	}
}

// expire is the counter reaching zero: the flag is set, and if it was
// already set the expiry is an overrun
func (t *Timer) expire() {
	t.mu.Lock()
	t.expiries++
	if t.state == core.TimerExpiredPendingAck {
		t.overruns++
	}
	t.state = core.TimerExpiredPendingAck
	listening := t.listening
	t.mu.Unlock()

	if listening {
		t.ctrl.Pend(t.irq)
	}
}

// Listen enables the expiry interrupt request
func (t *Timer) Listen() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listening = true
}

// Wait clears a pending expiry, or returns core.ErrWouldBlock
func (t *Timer) Wait() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != core.TimerExpiredPendingAck {
		return core.ErrWouldBlock
	}
	t.state = core.TimerArmed
	return nil
}

// Stop halts the countdown. A stopped timer never expires.
func (t *Timer) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	t.ticker.Stop()
	close(t.stop)
	t.mu.Unlock()

	t.wg.Wait()
}

// State returns the current countdown state
func (t *Timer) State() core.TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Period returns the quantized period the timer was started with
func (t *Timer) Period() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.period
}

// Expiries returns how many times the counter reached zero
func (t *Timer) Expiries() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expiries
}

// Overruns returns how many expiries found the previous one unacknowledged
func (t *Timer) Overruns() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.overruns
}
