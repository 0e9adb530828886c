package core

import "testing"

func TestTraceRecordAndDrain(t *testing.T) {
	ClearTrace()
	clock := uint32(0)
	SetClockSource(func() uint32 { clock += 10; return clock })
	defer SetClockSource(func() uint32 { return 0 })

	RecordTrace(EvtToggle, 1, 1)
	RecordTrace(EvtAck, 1, 0)

	var events []TraceEvent
	n := DrainTrace(func(evt TraceEvent) { events = append(events, evt) })
	if n != 2 || len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", n)
	}
	if events[0].Type != EvtToggle || events[1].Type != EvtAck {
		t.Errorf("Events out of order: %v", events)
	}
	if events[0].Clock != 10 || events[1].Clock != 20 {
		t.Errorf("Expected clocks 10,20 got %d,%d", events[0].Clock, events[1].Clock)
	}

	if n := DrainTrace(func(TraceEvent) {}); n != 0 {
		t.Errorf("Expected drained ring to be empty, got %d", n)
	}
}

func TestTraceOverflowKeepsNewest(t *testing.T) {
	ClearTrace()

	total := TraceRingSize + 5
	for i := 0; i < total; i++ {
		RecordTrace(EvtToggle, uint32(i), 0)
	}

	var first, last uint32
	n := DrainTrace(func(evt TraceEvent) {
		if first == 0 && last == 0 {
			first = evt.Value1
		}
		last = evt.Value1
	})
	if n != TraceRingSize {
		t.Errorf("Expected %d events, got %d", TraceRingSize, n)
	}
	if first != 5 || last != uint32(total-1) {
		t.Errorf("Expected events 5..%d, got %d..%d", total-1, first, last)
	}
	if TraceDropped() != 5 {
		t.Errorf("Expected 5 dropped events, got %d", TraceDropped())
	}
}

func TestFormatTrace(t *testing.T) {
	got := FormatTrace(TraceEvent{Type: EvtToggle, Clock: 1000000, Value1: 3, Value2: 1})
	want := "[TRACE] TOGGLE clock=1000000 v1=3 v2=1"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestDebugPrintlnDisabledByDefault(t *testing.T) {
	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	defer SetDebugWriter(func(string) {})

	SetDebugEnabled(false)
	DebugPrintln("hidden")
	SetDebugEnabled(true)
	DebugPrintln("shown")
	SetDebugEnabled(false)

	if len(lines) != 1 || lines[0] != "shown" {
		t.Errorf("Expected only enabled output, got %v", lines)
	}
}

func TestUtoa(t *testing.T) {
	for v, want := range map[uint32]string{0: "0", 7: "7", 1000: "1000", 4294967295: "4294967295"} {
		if got := Utoa(v); got != want {
			t.Errorf("Utoa(%d) = %q, want %q", v, got, want)
		}
	}
}
