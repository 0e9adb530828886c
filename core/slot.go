package core

// SlotState describes the occupancy of a Slot
type SlotState uint8

const (
	SlotEmpty    SlotState = iota // Created, nothing stored yet
	SlotOccupied                  // Holding a handle for hand-off
	SlotSpent                     // Handle was taken; never used again
)

func (s SlotState) String() string {
	switch s {
	case SlotEmpty:
		return "empty"
	case SlotOccupied:
		return "occupied"
	case SlotSpent:
		return "spent"
	}
	return "unknown"
}

// Slot moves one handle from the main context to the interrupt context.
// It is filled once by Store and drained once by Take, both inside a
// critical section; after that it is spent and rejects every operation.
type Slot[T any] struct {
	value T
	state SlotState
}

// Store places v into an empty slot. Called from the main context before
// the interrupt that drains the slot is enabled.
func (s *Slot[T]) Store(v T) error {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	switch s.state {
	case SlotOccupied:
		return ErrSlotOccupied
	case SlotSpent:
		return ErrSlotSpent
	}
	s.value = v
	s.state = SlotOccupied
	return nil
}

// Take removes the handle from the slot. Called from the interrupt context.
// An empty or spent slot yields an error, never a zero handle.
func (s *Slot[T]) Take() (T, error) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	var zero T
	switch s.state {
	case SlotEmpty:
		return zero, ErrSlotEmpty
	case SlotSpent:
		return zero, ErrSlotSpent
	}
	v := s.value
	s.value = zero
	s.state = SlotSpent
	return v, nil
}

// State returns the current occupancy
func (s *Slot[T]) State() SlotState {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return s.state
}
