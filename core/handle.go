package core

import "periph.io/x/conn/v3/physic"

// Level is the logical state of a digital output
type Level bool

const (
	Low  Level = false // Output off
	High Level = true  // Output on
)

// Invert returns the opposite level
func (l Level) Invert() Level {
	return !l
}

func (l Level) String() string {
	if l {
		return "High"
	}
	return "Low"
}

// OutputPin is the capability to drive one digital output line.
// Exactly one execution context may hold a given OutputPin at a time.
type OutputPin interface {
	// Set drives the output to the given level
	Set(level Level) error

	// Toggle inverts the current output level
	Toggle() error

	// Level returns the level last driven
	Level() Level
}

// CountdownTimer is the capability to operate one periodic countdown timer.
// Exactly one execution context may hold a given CountdownTimer at a time.
type CountdownTimer interface {
	// Start arms the timer to expire once per period of the given frequency.
	// The hardware reloads automatically after each expiry.
	Start(freq physic.Frequency) error

	// Listen enables the expiry notification (interrupt request) of the timer
	Listen()

	// Wait acknowledges a pending expiry by clearing the expiry flag.
	// It returns ErrWouldBlock while the timer is still counting down.
	Wait() error
}

// Clocks holds frozen clock frequencies in Hz
type Clocks struct {
	SysClk   uint32 // Core clock
	TimerClk uint32 // Clock feeding the countdown timer
}
