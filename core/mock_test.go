package core

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/physic"
)

// mockPin is a test implementation of OutputPin
type mockPin struct {
	log     *[]string
	level   Level
	toggles int
	failing bool
}

func (p *mockPin) Set(level Level) error {
	p.record("pin.Set")
	p.level = level
	return nil
}

func (p *mockPin) Toggle() error {
	if p.failing {
		return errors.New("pin fault")
	}
	p.record("pin.Toggle")
	p.level = !p.level
	p.toggles++
	return nil
}

func (p *mockPin) Level() Level {
	return p.level
}

func (p *mockPin) record(call string) {
	if p.log != nil {
		*p.log = append(*p.log, call)
	}
}

// mockTimer is a test implementation of CountdownTimer. Expire simulates the
// hardware reaching zero.
type mockTimer struct {
	log       *[]string
	freq      physic.Frequency
	listening bool
	expired   bool
	acks      int
	startErr  error
}

func (m *mockTimer) Start(freq physic.Frequency) error {
	m.record("timer.Start")
	if m.startErr != nil {
		return m.startErr
	}
	m.freq = freq
	return nil
}

func (m *mockTimer) Listen() {
	m.record("timer.Listen")
	m.listening = true
}

func (m *mockTimer) Wait() error {
	if !m.expired {
		return ErrWouldBlock
	}
	m.expired = false
	m.acks++
	return nil
}

func (m *mockTimer) Expire() {
	m.expired = true
}

func (m *mockTimer) record(call string) {
	if m.log != nil {
		*m.log = append(*m.log, call)
	}
}

// mockBoard is a test implementation of Board that records call order
type mockBoard struct {
	calls    []string
	pin      *mockPin
	timer    *mockTimer
	pinErr   error
	timerErr error
	irq      bool

	// Slots observed by EnableIRQ, when set
	pins        *Slot[OutputPin]
	timers      *Slot[CountdownTimer]
	irqPinState SlotState
	irqTmrState SlotState
}

func newMockBoard() *mockBoard {
	b := &mockBoard{}
	b.pin = &mockPin{log: &b.calls}
	b.timer = &mockTimer{log: &b.calls}
	return b
}

func (b *mockBoard) ConfigureClocks() Clocks {
	b.calls = append(b.calls, "clocks")
	return Clocks{SysClk: 72000000, TimerClk: 72000000}
}

func (b *mockBoard) TakePin() (OutputPin, error) {
	b.calls = append(b.calls, "takePin")
	if b.pinErr != nil {
		return nil, b.pinErr
	}
	return b.pin, nil
}

func (b *mockBoard) TakeTimer(clocks Clocks) (CountdownTimer, error) {
	b.calls = append(b.calls, "takeTimer")
	if b.timerErr != nil {
		return nil, b.timerErr
	}
	return b.timer, nil
}

func (b *mockBoard) EnableIRQ() {
	b.calls = append(b.calls, "enableIRQ")
	b.irq = true
	if b.pins != nil && b.timers != nil {
		b.irqPinState = b.pins.State()
		b.irqTmrState = b.timers.State()
	}
}

// expectHalt runs fn and returns the Halt it raised
func expectHalt(t *testing.T, fn func()) (h *Halt) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Expected halt, got normal return")
		}
		var ok bool
		h, ok = AsHalt(r)
		if !ok {
			t.Fatalf("Expected *Halt panic, got %v", r)
		}
	}()
	fn()
	return nil
}
