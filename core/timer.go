package core

import (
	"sync/atomic"

	"periph.io/x/conn/v3/physic"
)

// TimerState is the logical state of a periodic countdown
type TimerState uint8

const (
	TimerArmed             TimerState = iota // Counting down to the next expiry
	TimerExpiredPendingAck                   // Expired; flag set until Wait clears it
)

func (s TimerState) String() string {
	if s == TimerExpiredPendingAck {
		return "expired-pending-ack"
	}
	return "armed"
}

// Limits of 16-bit prescaler/auto-reload timers (STM32 TIMx)
const (
	MaxPrescale = 1 << 16
	MaxReload   = 1 << 16
)

var clockSource atomic.Value // func() uint32

// SetClockSource installs the tick counter used to timestamp trace events
func SetClockSource(fn func() uint32) {
	clockSource.Store(fn)
}

// GetTime returns the current tick count, or 0 without a clock source
func GetTime() uint32 {
	fn, _ := clockSource.Load().(func() uint32)
	if fn == nil {
		return 0
	}
	return fn()
}

// TimerTicks returns the number of clock ticks in one period of freq,
// rounded to the nearest tick
func TimerTicks(clock uint32, freq physic.Frequency) (uint32, error) {
	if clock == 0 || freq <= 0 {
		return 0, ErrPeriodOutOfRange
	}
	ticks := (uint64(clock)*uint64(physic.Hertz) + uint64(freq)/2) / uint64(freq)
	if ticks == 0 || ticks > 0xFFFFFFFF {
		return 0, ErrPeriodOutOfRange
	}
	return uint32(ticks), nil
}

// Prescale splits one period of freq into prescaler and auto-reload register
// values for a 16-bit timer, picking the smallest prescaler that fits. The
// timer expires every (psc+1)*(arr+1) clock ticks.
func Prescale(clock uint32, freq physic.Frequency) (psc, arr uint32, err error) {
	ticks, err := TimerTicks(clock, freq)
	if err != nil {
		return 0, 0, err
	}
	psc = (ticks - 1) / MaxReload
	if psc >= MaxPrescale {
		return 0, 0, ErrPeriodOutOfRange
	}
	arr = ticks/(psc+1) - 1
	if arr == 0 {
		return 0, 0, ErrPeriodOutOfRange
	}
	return psc, arr, nil
}

// CyclesPerPeriod returns how many cycles of a counter running at counterHz
// fit in one period of freq, for timers built from a cycle-counting loop
func CyclesPerPeriod(counterHz uint32, freq physic.Frequency) (uint32, error) {
	return TimerTicks(counterHz, freq)
}
