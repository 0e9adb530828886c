package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TraceEvent captures one step of the toggle loop for later export
type TraceEvent struct {
	Type   uint8  // Event type code (Evt*)
	Clock  uint32 // Tick clock at event
	Value1 uint32 // Context-dependent value
	Value2 uint32 // Context-dependent value
}

// Event type codes
const (
	EvtSetup    = 1 // Initialization finished; v1=initial level, v2=frequency in mHz
	EvtHandoff  = 2 // Handler took its handles from the slots
	EvtToggle   = 3 // Pin toggled; v1=toggle count, v2=new level
	EvtAck      = 4 // Expiry acknowledged; v1=toggle count
	EvtSpurious = 5 // Handler entered with no expiry pending
	EvtHalt     = 6 // Fatal error; v1=halt code
	EvtOverflow = 7 // Ring overwrote undrained events; v1=total dropped
)

// Halt codes carried in EvtHalt
const (
	HaltUnknown    = 0
	HaltSlotEmpty  = 1
	HaltSlotSpent  = 2
	HaltPeripheral = 3
	HaltContract   = 4
)

const (
	TraceRingSize = 32 // Events kept until drained
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether DebugPrintln output is active
	debugEnabled bool = false

	traceRing    [TraceRingSize]TraceEvent
	traceHead    uint8 // Next write position
	traceLen     uint8 // Events not yet drained
	traceDropped uint32
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer.
// Never call it from interrupt context; use RecordTrace there.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordTrace appends an event to the trace ring. It only touches memory and
// is safe to call from interrupt context. When the ring is full the oldest
// event is overwritten.
func RecordTrace(eventType uint8, value1, value2 uint32) {
	clock := GetTime()

	state := disableInterrupts()
	defer restoreInterrupts(state)

	traceRing[traceHead] = TraceEvent{
		Type:   eventType,
		Clock:  clock,
		Value1: value1,
		Value2: value2,
	}
	traceHead = (traceHead + 1) % TraceRingSize
	if traceLen < TraceRingSize {
		traceLen++
	} else {
		traceDropped++
	}
}

// DrainTrace hands every pending event, oldest first, to fn. Events are
// copied out under the critical section and fn runs outside it.
func DrainTrace(fn func(TraceEvent)) int {
	var pending [TraceRingSize]TraceEvent

	state := disableInterrupts()
	n := int(traceLen)
	start := (int(traceHead) + TraceRingSize - n) % TraceRingSize
	for i := 0; i < n; i++ {
		pending[i] = traceRing[(start+i)%TraceRingSize]
	}
	traceLen = 0
	restoreInterrupts(state)

	for i := 0; i < n; i++ {
		fn(pending[i])
	}
	return n
}

// TraceDropped returns how many events were overwritten before being drained
func TraceDropped() uint32 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return traceDropped
}

// ClearTrace empties the trace ring
func ClearTrace() {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	for i := range traceRing {
		traceRing[i] = TraceEvent{}
	}
	traceHead = 0
	traceLen = 0
	traceDropped = 0
}

// TraceName returns a short label for an event type
func TraceName(eventType uint8) string {
	switch eventType {
	case EvtSetup:
		return "SETUP"
	case EvtHandoff:
		return "HANDOFF"
	case EvtToggle:
		return "TOGGLE"
	case EvtAck:
		return "ACK"
	case EvtSpurious:
		return "SPURIOUS"
	case EvtHalt:
		return "HALT!"
	case EvtOverflow:
		return "OVERFLOW"
	}
	return "UNKNOWN"
}

// FormatTrace renders an event without using fmt
func FormatTrace(evt TraceEvent) string {
	return "[TRACE] " + TraceName(evt.Type) +
		" clock=" + Utoa(evt.Clock) +
		" v1=" + Utoa(evt.Value1) +
		" v2=" + Utoa(evt.Value2)
}
