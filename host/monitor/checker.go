package monitor

import (
	"fmt"
	"time"

	"ticktoggle/core"
)

// Property names reported in violations
const (
	PropertyParity   = "parity"
	PropertyPeriod   = "period"
	PropertySequence = "sequence"
	PropertyHalt     = "halt"
)

// Violation is a trace event that breaks an expected property
type Violation struct {
	Property string
	Event    core.TraceEvent
	Detail   string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s violation at clock %d: %s", v.Property, v.Event.Clock, v.Detail)
}

// Checker verifies a trace: after n toggles the level equals the initial
// level when n is even and its inverse when n is odd, and consecutive toggles
// are one period apart within a tolerance. Trace clocks are in microseconds.
type Checker struct {
	period    time.Duration
	tolerance time.Duration
	initial   core.Level

	toggles    uint32
	lastCount  uint32
	lastClock  uint32
	haveToggle bool
	spurious   uint32
	dropped    uint32
	halt       *core.TraceEvent
	violations int
}

// NewChecker creates a checker. A zero period is learned from the setup
// event; initial is overridden by it too.
func NewChecker(period, tolerance time.Duration, initial core.Level) *Checker {
	return &Checker{
		period:    period,
		tolerance: tolerance,
		initial:   initial,
	}
}

// Observe feeds one event and returns a *Violation if it breaks a property
func (c *Checker) Observe(evt core.TraceEvent) error {
	switch evt.Type {
	case core.EvtSetup:
		c.initial = evt.Value1 != 0
		if evt.Value2 != 0 {
			// Value2 is the frequency in mHz
			c.period = time.Duration(1000 * int64(time.Second) / int64(evt.Value2))
		}
		c.haveToggle = false
		c.toggles = 0

	case core.EvtToggle:
		return c.toggle(evt)

	case core.EvtSpurious:
		c.spurious++

	case core.EvtOverflow:
		// Toggles were lost on the board; restart the sequence
		c.dropped = evt.Value1
		c.haveToggle = false

	case core.EvtHalt:
		halt := evt
		c.halt = &halt
		return c.violate(PropertyHalt, evt, fmt.Sprintf("board halted with code %d", evt.Value1))
	}
	return nil
}

func (c *Checker) toggle(evt core.TraceEvent) error {
	count := evt.Value1
	level := core.Level(evt.Value2 != 0)
	c.toggles++

	want := c.initial
	if count%2 == 1 {
		want = want.Invert()
	}
	if level != want {
		return c.violate(PropertyParity, evt,
			fmt.Sprintf("toggle %d left the pin %v, want %v", count, level, want))
	}

	consecutive := c.haveToggle && count == c.lastCount+1
	skipped := c.haveToggle && count != c.lastCount+1
	delta := time.Duration(evt.Clock-c.lastClock) * time.Microsecond

	c.haveToggle = true
	c.lastCount = count
	c.lastClock = evt.Clock

	if skipped {
		return c.violate(PropertySequence, evt,
			fmt.Sprintf("toggle count jumped to %d", count))
	}
	if consecutive && c.period > 0 {
		diff := delta - c.period
		if diff < 0 {
			diff = -diff
		}
		if diff > c.tolerance {
			return c.violate(PropertyPeriod, evt,
				fmt.Sprintf("toggle %d came %v after the previous one, want %v", count, delta, c.period))
		}
	}
	return nil
}

func (c *Checker) violate(property string, evt core.TraceEvent, detail string) error {
	c.violations++
	return &Violation{Property: property, Event: evt, Detail: detail}
}

// Period returns the period toggles are checked against
func (c *Checker) Period() time.Duration {
	return c.period
}

// Toggles returns the number of toggle events seen
func (c *Checker) Toggles() uint32 {
	return c.toggles
}

// Spurious returns the number of spurious interrupt entries seen
func (c *Checker) Spurious() uint32 {
	return c.spurious
}

// Dropped returns the number of events the board reported lost
func (c *Checker) Dropped() uint32 {
	return c.dropped
}

// Violations returns the number of violations reported so far
func (c *Checker) Violations() int {
	return c.violations
}

// Halted reports whether a halt event was seen, and its code
func (c *Checker) Halted() (bool, uint32) {
	if c.halt == nil {
		return false, 0
	}
	return true, c.halt.Value1
}
