package hostboard

import (
	"sync"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"

	"ticktoggle/core"
)

// ClockHz is the simulated timer input clock. One tick is a microsecond,
// which also makes trace clocks read in microseconds.
const ClockHz = 1000000

// Board implements core.Board on a host. Each peripheral can be taken once.
type Board struct {
	clock clockwork.Clock
	ctrl  *Controller
	gpio  gpio.PinIO

	mu     sync.Mutex
	pin    *Pin
	timer  *Timer
	clocks bool
}

// NewBoard assembles a board from a GPIO line (nil when absent), a clock
// and an interrupt controller
func NewBoard(line gpio.PinIO, clock clockwork.Clock, ctrl *Controller) *Board {
	return &Board{
		clock: clock,
		ctrl:  ctrl,
		gpio:  line,
	}
}

// ConfigureClocks freezes the simulated clock tree
func (b *Board) ConfigureClocks() core.Clocks {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clocks = true
	return core.Clocks{SysClk: ClockHz, TimerClk: ClockHz}
}

// TakePin hands out the output line
func (b *Board) TakePin() (core.OutputPin, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gpio == nil {
		return nil, core.ErrPeripheralMissing
	}
	if b.pin != nil {
		return nil, core.ErrPeripheralTaken
	}
	b.pin = NewPin(b.gpio)
	return b.pin, nil
}

// TakeTimer hands out the countdown timer, clocked from clocks.TimerClk
func (b *Board) TakeTimer(clocks core.Clocks) (core.CountdownTimer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		return nil, core.ErrPeripheralTaken
	}
	b.timer = NewTimer(b.clock, clocks.TimerClk, b.ctrl, IRQTimer)
	return b.timer, nil
}

// EnableIRQ unmasks the timer line at the controller
func (b *Board) EnableIRQ() {
	b.ctrl.Enable(IRQTimer)
}

// Controller returns the board's interrupt controller
func (b *Board) Controller() *Controller {
	return b.ctrl
}

// Clock returns the clock driving the timer
func (b *Board) Clock() clockwork.Clock {
	return b.clock
}

// Pin returns the output pin once taken, for inspection
func (b *Board) Pin() *Pin {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pin
}

// Timer returns the countdown timer once taken, for inspection
func (b *Board) Timer() *Timer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.timer
}

// Close stops the timer and the controller
func (b *Board) Close() {
	if t := b.Timer(); t != nil {
		t.Stop()
	}
	b.ctrl.Close()
}
