package core

import "errors"

var (
	// ErrWouldBlock is returned by CountdownTimer.Wait while no expiry is pending
	ErrWouldBlock = errors.New("operation would block")

	ErrSlotEmpty    = errors.New("slot is empty")
	ErrSlotOccupied = errors.New("slot is already occupied")
	ErrSlotSpent    = errors.New("slot was already handed off")

	ErrPeripheralTaken   = errors.New("peripheral already taken")
	ErrPeripheralMissing = errors.New("peripheral not present")

	ErrPeriodOutOfRange = errors.New("period out of range for timer clock")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

// HandoffError reports a handle that could not be taken from its slot
type HandoffError struct {
	Resource string
	Err      error
}

func (e *HandoffError) Error() string {
	return e.Resource + " hand-off: " + e.Err.Error()
}

func (e *HandoffError) Unwrap() error {
	return e.Err
}
