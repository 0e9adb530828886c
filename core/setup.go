package core

import "periph.io/x/conn/v3/physic"

// Mode selects how the toggle loop is driven
type Mode uint8

const (
	ModeInterrupt Mode = iota // Timer interrupt toggles, main context idles
	ModePolling               // Main context blocks on timer expiry and toggles
)

func (m Mode) String() string {
	switch m {
	case ModeInterrupt:
		return "interrupt"
	case ModePolling:
		return "polling"
	}
	return "unknown"
}

// Config is the compile-time configuration of the toggle loop
type Config struct {
	Frequency    physic.Frequency // Toggle rate: one timer expiry per period
	InitialLevel Level            // Level driven before the timer starts
	Mode         Mode
}

// DefaultConfig toggles once per second starting from output-off
func DefaultConfig() Config {
	return Config{
		Frequency:    1 * physic.Hertz,
		InitialLevel: Low,
		Mode:         ModeInterrupt,
	}
}

// Validate checks the configuration before any peripheral is touched
func (c Config) Validate() error {
	if c.Frequency <= 0 {
		return ErrInvalidConfig
	}
	if c.Mode != ModeInterrupt && c.Mode != ModePolling {
		return ErrInvalidConfig
	}
	return nil
}

// Board provides the peripherals and controller hooks the toggle loop needs.
// Each Take method hands out its peripheral at most once.
type Board interface {
	// ConfigureClocks sets up the clock tree and returns the frozen frequencies
	ConfigureClocks() Clocks

	// TakePin configures the output line and returns exclusive ownership of it
	TakePin() (OutputPin, error)

	// TakeTimer returns exclusive ownership of the countdown timer
	TakeTimer(clocks Clocks) (CountdownTimer, error)

	// EnableIRQ unmasks the timer interrupt line at the interrupt controller
	EnableIRQ()
}

// Setup runs the interrupt-mode initialization sequence once, in the main
// context. The handles end up in the slots and the main context keeps no
// reference to them. The interrupt line is unmasked last, so the slots are
// populated before the handler can possibly run; any error returns before
// that point and must be treated as fatal by the caller.
func Setup(b Board, cfg Config, pins *Slot[OutputPin], timers *Slot[CountdownTimer]) error {
	pin, timer, err := acquire(b, cfg)
	if err != nil {
		return err
	}

	// Notification is enabled while the timer is still ours; the line stays
	// masked at the controller until EnableIRQ.
	timer.Listen()

	if err := pins.Store(pin); err != nil {
		return err
	}
	pin = nil
	if err := timers.Store(timer); err != nil {
		return err
	}
	timer = nil

	RecordTrace(EvtSetup, levelValue(cfg.InitialLevel), uint32(cfg.Frequency/physic.MilliHertz))
	DebugPrintln("[SETUP] " + cfg.Mode.String() + " mode, " + cfg.Frequency.String())

	b.EnableIRQ()
	return nil
}

// acquire performs the steps shared by both modes: clocks, pin at its
// initial level, timer armed for the configured period
func acquire(b Board, cfg Config) (OutputPin, CountdownTimer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	clocks := b.ConfigureClocks()

	pin, err := b.TakePin()
	if err != nil {
		return nil, nil, err
	}
	if err := pin.Set(cfg.InitialLevel); err != nil {
		return nil, nil, err
	}

	timer, err := b.TakeTimer(clocks)
	if err != nil {
		return nil, nil, err
	}
	if err := timer.Start(cfg.Frequency); err != nil {
		return nil, nil, err
	}
	return pin, timer, nil
}

func levelValue(l Level) uint32 {
	if l {
		return 1
	}
	return 0
}
