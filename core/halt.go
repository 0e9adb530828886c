package core

import "errors"

// Halt is the panic value raised by Fatal. Nothing above the toggle loop
// recovers from it on hardware: TinyGo's panic handler parks the core and the
// output stops toggling.
type Halt struct {
	Code uint8
	Err  error
}

func (h *Halt) Error() string {
	return "halt: " + h.Err.Error()
}

func (h *Halt) Unwrap() error {
	return h.Err
}

// Fatal records the failure in the trace ring and halts. It runs in
// interrupt context, so it only touches the ring.
func Fatal(err error) {
	code := haltCode(err)
	RecordTrace(EvtHalt, uint32(code), 0)
	panic(&Halt{Code: code, Err: err})
}

func haltCode(err error) uint8 {
	switch {
	case errors.Is(err, ErrSlotEmpty):
		return HaltSlotEmpty
	case errors.Is(err, ErrSlotSpent):
		return HaltSlotSpent
	case errors.Is(err, ErrPeripheralTaken), errors.Is(err, ErrPeripheralMissing):
		return HaltPeripheral
	case errors.Is(err, ErrSlotOccupied), errors.Is(err, ErrPeriodOutOfRange), errors.Is(err, ErrInvalidConfig):
		return HaltContract
	}
	return HaltUnknown
}

// AsHalt reports whether a recovered panic value is a Halt raised by Fatal
func AsHalt(r any) (*Halt, bool) {
	h, ok := r.(*Halt)
	return h, ok
}
