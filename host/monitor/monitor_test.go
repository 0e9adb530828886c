package monitor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"ticktoggle/core"
	"ticktoggle/protocol"
)

// toggleTrace builds the events of a board starting at initial and toggling
// n times, one period apart
func toggleTrace(initial core.Level, n int, period uint32) []core.TraceEvent {
	level := initial
	events := []core.TraceEvent{{Type: core.EvtSetup, Value1: levelBit(initial), Value2: 1000000000 / period}}
	for i := 1; i <= n; i++ {
		level = level.Invert()
		clock := uint32(i) * period
		events = append(events,
			core.TraceEvent{Type: core.EvtToggle, Clock: clock, Value1: uint32(i), Value2: levelBit(level)},
			core.TraceEvent{Type: core.EvtAck, Clock: clock, Value1: uint32(i)},
		)
	}
	return events
}

func levelBit(l core.Level) uint32 {
	if l {
		return 1
	}
	return 0
}

func encodeTrace(events []core.TraceEvent) []byte {
	var enc protocol.TraceEncoder
	out := []byte{protocol.MessageValueSync}
	for _, evt := range events {
		out = append(out, enc.Frame(evt)...)
	}
	return out
}

func TestStreamDecodesEvents(t *testing.T) {
	events := toggleTrace(core.Low, 5, 1000000)
	data := encodeTrace(events)
	// Line noise before the first frame
	data = append([]byte{0x01, 0x55, 0xAA}, data...)

	s := NewStream(bytes.NewReader(data), false)
	for i, want := range events {
		got, err := s.Next(context.Background())
		if err != nil {
			t.Fatalf("event %d: %v", i, err)
		}
		if got != want {
			t.Errorf("event %d: got %+v, want %+v", i, got, want)
		}
	}
	if _, err := s.Next(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF at end of stream, got %v", err)
	}
	if s.Lost() != 0 {
		t.Errorf("Lost() = %d", s.Lost())
	}
}

func TestStreamSkipsBadPayload(t *testing.T) {
	out := protocol.NewScratchOutput()
	protocol.EncodeFrame(out, 0, func(o protocol.OutputBuffer) {
		o.Output([]byte{core.EvtToggle})
	})
	data := append([]byte{protocol.MessageValueSync}, out.Result()...)

	var enc protocol.TraceEncoder
	enc.Frame(core.TraceEvent{})
	want := core.TraceEvent{Type: core.EvtAck, Clock: 7, Value1: 1}
	data = append(data, enc.Frame(want)...)

	s := NewStream(bytes.NewReader(data), false)
	got, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if s.BadPayloads != 1 {
		t.Errorf("BadPayloads = %d, want 1", s.BadPayloads)
	}
}

func TestStreamHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewStream(bytes.NewReader(nil), true)
	if _, err := s.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCheckerAcceptsCleanTrace(t *testing.T) {
	for _, initial := range []core.Level{core.Low, core.High} {
		c := NewChecker(0, time.Millisecond, core.Low)
		for _, evt := range toggleTrace(initial, 10, 1000000) {
			if err := c.Observe(evt); err != nil {
				t.Errorf("initial %v: %v", initial, err)
			}
		}
		if c.Period() != time.Second {
			t.Errorf("learned period %v, want 1s", c.Period())
		}
		if c.Toggles() != 10 || c.Violations() != 0 {
			t.Errorf("toggles=%d violations=%d", c.Toggles(), c.Violations())
		}
	}
}

func TestCheckerParity(t *testing.T) {
	c := NewChecker(time.Second, time.Millisecond, core.Low)

	// Odd toggle count must leave the pin high
	err := c.Observe(core.TraceEvent{Type: core.EvtToggle, Clock: 1000000, Value1: 1, Value2: 0})
	var v *Violation
	if !errors.As(err, &v) || v.Property != PropertyParity {
		t.Fatalf("expected parity violation, got %v", err)
	}
}

func TestCheckerPeriod(t *testing.T) {
	c := NewChecker(time.Second, 10*time.Millisecond, core.Low)

	events := []core.TraceEvent{
		{Type: core.EvtToggle, Clock: 1000000, Value1: 1, Value2: 1},
		{Type: core.EvtToggle, Clock: 2005000, Value1: 2, Value2: 0},
		{Type: core.EvtToggle, Clock: 3500000, Value1: 3, Value2: 1},
	}
	if err := c.Observe(events[0]); err != nil {
		t.Fatal(err)
	}
	if err := c.Observe(events[1]); err != nil {
		t.Errorf("5ms jitter within tolerance rejected: %v", err)
	}
	err := c.Observe(events[2])
	var v *Violation
	if !errors.As(err, &v) || v.Property != PropertyPeriod {
		t.Errorf("expected period violation, got %v", err)
	}
}

func TestCheckerSequenceGap(t *testing.T) {
	c := NewChecker(time.Second, time.Millisecond, core.Low)
	c.Observe(core.TraceEvent{Type: core.EvtToggle, Clock: 1000000, Value1: 1, Value2: 1})

	err := c.Observe(core.TraceEvent{Type: core.EvtToggle, Clock: 3000000, Value1: 3, Value2: 1})
	var v *Violation
	if !errors.As(err, &v) || v.Property != PropertySequence {
		t.Errorf("expected sequence violation, got %v", err)
	}
}

func TestCheckerClockWrap(t *testing.T) {
	c := NewChecker(time.Second, time.Millisecond, core.Low)
	c.Observe(core.TraceEvent{Type: core.EvtToggle, Clock: 0xFFFFFFFF - 499999, Value1: 1, Value2: 1})

	err := c.Observe(core.TraceEvent{Type: core.EvtToggle, Clock: 500000, Value1: 2, Value2: 0})
	if err != nil {
		t.Errorf("wrapped clock rejected: %v", err)
	}
}

func TestCheckerHalt(t *testing.T) {
	c := NewChecker(time.Second, time.Millisecond, core.Low)
	err := c.Observe(core.TraceEvent{Type: core.EvtHalt, Value1: core.HaltSlotEmpty})

	var v *Violation
	if !errors.As(err, &v) || v.Property != PropertyHalt {
		t.Fatalf("expected halt violation, got %v", err)
	}
	halted, code := c.Halted()
	if !halted || code != core.HaltSlotEmpty {
		t.Errorf("Halted() = %v, %d", halted, code)
	}
}

func TestCheckerCountsSpurious(t *testing.T) {
	c := NewChecker(time.Second, time.Millisecond, core.Low)
	c.Observe(core.TraceEvent{Type: core.EvtSpurious})
	c.Observe(core.TraceEvent{Type: core.EvtSpurious})
	if c.Spurious() != 2 {
		t.Errorf("Spurious() = %d", c.Spurious())
	}
}

func TestCheckerOverflowRestartsSequence(t *testing.T) {
	c := NewChecker(time.Second, time.Millisecond, core.Low)
	c.Observe(core.TraceEvent{Type: core.EvtToggle, Clock: 1000000, Value1: 1, Value2: 1})
	c.Observe(core.TraceEvent{Type: core.EvtOverflow, Clock: 9000000, Value1: 12})

	err := c.Observe(core.TraceEvent{Type: core.EvtToggle, Clock: 9500000, Value1: 9, Value2: 1})
	if err != nil {
		t.Errorf("toggle after reported overflow rejected: %v", err)
	}
	if c.Dropped() != 12 {
		t.Errorf("Dropped() = %d, want 12", c.Dropped())
	}
	err = c.Observe(core.TraceEvent{Type: core.EvtToggle, Clock: 10500000, Value1: 10, Value2: 0})
	if err != nil {
		t.Errorf("consecutive toggle rejected: %v", err)
	}
}
