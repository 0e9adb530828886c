// Package hostboard runs the toggle loop on a regular Go host. It stands in
// for the microcontroller: a simulated interrupt controller, a countdown
// timer driven by a clockwork clock and an output pin backed by periph.io.
package hostboard

import (
	"sync"

	"ticktoggle/core"
)

// IRQ is an interrupt line number at the simulated controller
type IRQ uint8

// IRQTimer is the line the countdown timer raises
const IRQTimer IRQ = 0

const maxIRQ = 32

// Controller is a simulated interrupt controller. A single dispatch
// goroutine is the interrupt context: handlers never overlap and never
// preempt themselves. A line raised while disabled stays pending until it
// is enabled.
type Controller struct {
	mu   sync.Mutex
	cond *sync.Cond

	handlers [maxIRQ]func()
	enabled  uint32
	pending  uint32

	serviced uint64
	halt     *core.Halt
	closed   bool
	done     chan struct{}
}

// NewController starts the dispatcher. Close stops it.
func NewController() *Controller {
	c := &Controller{done: make(chan struct{})}
	c.cond = sync.NewCond(&c.mu)
	go c.dispatch()
	return c
}

// Register installs the handler for a line, like interrupt.New on TinyGo.
// The line starts disabled.
func (c *Controller) Register(irq IRQ, handler func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[irq] = handler
}

// Enable unmasks a line; a latched request is delivered right away
func (c *Controller) Enable(irq IRQ) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled |= 1 << irq
	c.cond.Broadcast()
}

// Disable masks a line
func (c *Controller) Disable(irq IRQ) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled &^= 1 << irq
}

// Pend raises a line. Requests raised while one is already pending merge.
func (c *Controller) Pend(irq IRQ) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending |= 1 << irq
	c.cond.Broadcast()
}

// Pending reports whether a line has a request waiting
func (c *Controller) Pending(irq IRQ) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending&(1<<irq) != 0
}

func (c *Controller) dispatch() {
	defer close(c.done)

	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		for !c.closed && c.halt == nil && c.pending&c.enabled == 0 {
			c.cond.Wait()
		}
		if c.closed || c.halt != nil {
			return
		}

		irq := lowestBit(c.pending & c.enabled)
		c.pending &^= 1 << irq
		handler := c.handlers[irq]

		c.mu.Unlock()
		halt := invoke(handler)
		c.mu.Lock()

		if halt != nil {
			c.halt = halt
		} else {
			c.serviced++
		}
		c.cond.Broadcast()
	}
}

// invoke runs one handler. A Halt raised through core.Fatal parks the
// controller; any other panic is a real fault and propagates.
func invoke(handler func()) (halt *core.Halt) {
	if handler == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			h, ok := core.AsHalt(r)
			if !ok {
				panic(r)
			}
			halt = h
		}
	}()
	handler()
	return nil
}

func lowestBit(mask uint32) IRQ {
	for i := IRQ(0); i < maxIRQ; i++ {
		if mask&(1<<i) != 0 {
			return i
		}
	}
	return 0
}

// WaitForInterrupt suspends until the next handler completes, the
// controller halts or it is closed
func (c *Controller) WaitForInterrupt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	start := c.serviced
	for c.serviced == start && c.halt == nil && !c.closed {
		c.cond.Wait()
	}
}

// AwaitServiced blocks until n handler invocations have completed. It
// returns false if the controller halted or closed first.
func (c *Controller) AwaitServiced(n uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.serviced < n && c.halt == nil && !c.closed {
		c.cond.Wait()
	}
	return c.serviced >= n
}

// Serviced returns the number of completed handler invocations
func (c *Controller) Serviced() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.serviced
}

// Halted reports whether a handler stopped the simulated CPU
func (c *Controller) Halted() bool {
	return c.HaltReason() != nil
}

// HaltReason returns the halt raised by a handler, if any
func (c *Controller) HaltReason() *core.Halt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.halt
}

// Close stops the dispatcher and releases every waiter
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.cond.Broadcast()
	c.mu.Unlock()
	<-c.done
}
