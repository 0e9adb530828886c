package core

import "errors"

// HandlerState is the lifecycle of the interrupt handler
type HandlerState uint8

const (
	HandlerUninitialized HandlerState = iota // Handles still in the slots
	HandlerReady                             // Handles cached locally
)

func (s HandlerState) String() string {
	if s == HandlerReady {
		return "ready"
	}
	return "uninitialized"
}

// Handler is the timer expiry interrupt routine. On its first invocation it
// takes the pin and timer out of their slots into fields it alone owns; every
// later invocation works from those fields and never touches the slots.
//
// Handle must only be called from the interrupt context, and never
// concurrently with itself.
type Handler struct {
	pins   *Slot[OutputPin]
	timers *Slot[CountdownTimer]

	// Handler-local cache, owned by the interrupt context after hand-off
	pin   OutputPin
	timer CountdownTimer

	count    uint32 // Toggles performed
	spurious uint32 // Entries with no expiry pending
}

// NewHandler creates a handler draining the given slots
func NewHandler(pins *Slot[OutputPin], timers *Slot[CountdownTimer]) *Handler {
	return &Handler{
		pins:   pins,
		timers: timers,
	}
}

// Handle services one timer expiry
func (h *Handler) Handle() {
	if h.pin == nil || h.timer == nil {
		h.acquire()
	}

	// Acknowledge first so a spurious entry does not toggle. On hardware the
	// flag stays set for the whole handler either way.
	err := h.timer.Wait()
	if errors.Is(err, ErrWouldBlock) {
		h.spurious++
		RecordTrace(EvtSpurious, h.count, 0)
		return
	}
	if err != nil {
		Fatal(err)
	}

	if err := h.pin.Toggle(); err != nil {
		Fatal(err)
	}
	h.count++

	RecordTrace(EvtToggle, h.count, levelValue(h.pin.Level()))
	RecordTrace(EvtAck, h.count, 0)
}

// acquire moves the handles out of the slots into the handler-local cache
func (h *Handler) acquire() {
	if h.pin == nil {
		pin, err := h.pins.Take()
		if err != nil {
			Fatal(&HandoffError{Resource: "pin", Err: err})
		}
		h.pin = pin
	}
	if h.timer == nil {
		timer, err := h.timers.Take()
		if err != nil {
			Fatal(&HandoffError{Resource: "timer", Err: err})
		}
		h.timer = timer
	}
	RecordTrace(EvtHandoff, 0, 0)
}

// State reports whether the handler has taken its handles
func (h *Handler) State() HandlerState {
	if h.pin != nil && h.timer != nil {
		return HandlerReady
	}
	return HandlerUninitialized
}

// Count returns the number of toggles performed
func (h *Handler) Count() uint32 {
	return h.count
}

// Spurious returns the number of entries that found no expiry pending
func (h *Handler) Spurious() uint32 {
	return h.spurious
}
