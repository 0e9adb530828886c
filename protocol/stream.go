package protocol

import (
	"io"

	"ticktoggle/core"
)

// TraceWriter streams the core trace ring to a byte sink as framed events.
// The first write is preceded by a sync byte so a decoder attached before
// the board reset locks on immediately.
type TraceWriter struct {
	w       io.Writer
	enc     TraceEncoder
	started bool
	dropped uint32

	// Errors counts failed writes; the affected events are lost
	Errors uint32
}

// NewTraceWriter creates a writer streaming to w
func NewTraceWriter(w io.Writer) *TraceWriter {
	return &TraceWriter{w: w}
}

// Drain sends every pending trace event and returns how many were sent.
// It must not run in interrupt context.
func (t *TraceWriter) Drain() int {
	if !t.started {
		t.started = true
		t.write([]byte{MessageValueSync})
	}

	// Lost events are older than anything still in the ring
	if dropped := core.TraceDropped(); dropped != t.dropped {
		t.dropped = dropped
		t.write(t.enc.Frame(core.TraceEvent{
			Type:   core.EvtOverflow,
			Clock:  core.GetTime(),
			Value1: dropped,
		}))
	}

	sent := 0
	core.DrainTrace(func(evt core.TraceEvent) {
		if t.write(t.enc.Frame(evt)) {
			sent++
		}
	})
	return sent
}

func (t *TraceWriter) write(p []byte) bool {
	if _, err := t.w.Write(p); err != nil {
		t.Errors++
		return false
	}
	return true
}
