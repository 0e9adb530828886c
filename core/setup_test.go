package core

import (
	"errors"
	"reflect"
	"testing"

	"periph.io/x/conn/v3/physic"
)

func TestSetupOrder(t *testing.T) {
	ClearTrace()
	board := newMockBoard()
	var pins Slot[OutputPin]
	var timers Slot[CountdownTimer]

	if err := Setup(board, DefaultConfig(), &pins, &timers); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	expected := []string{
		"clocks",
		"takePin",
		"pin.Set",
		"takeTimer",
		"timer.Start",
		"timer.Listen",
		"enableIRQ",
	}
	if !reflect.DeepEqual(board.calls, expected) {
		t.Errorf("Unexpected call order:\n got  %v\n want %v", board.calls, expected)
	}

	if pins.State() != SlotOccupied || timers.State() != SlotOccupied {
		t.Errorf("Expected both slots occupied, got pin=%s timer=%s", pins.State(), timers.State())
	}
	if board.pin.Level() != Low {
		t.Errorf("Expected initial level Low, got %s", board.pin.Level())
	}
	if board.timer.freq != physic.Hertz {
		t.Errorf("Expected timer armed at 1Hz, got %s", board.timer.freq)
	}
}

func TestSetupStoresBeforeEnablingIRQ(t *testing.T) {
	ClearTrace()
	board := newMockBoard()
	var pins Slot[OutputPin]
	var timers Slot[CountdownTimer]
	board.pins = &pins
	board.timers = &timers

	if err := Setup(board, DefaultConfig(), &pins, &timers); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	if !board.irq {
		t.Fatal("Expected IRQ enabled")
	}
	if board.irqPinState != SlotOccupied {
		t.Errorf("Pin slot was %s when the IRQ was enabled", board.irqPinState)
	}
	if board.irqTmrState != SlotOccupied {
		t.Errorf("Timer slot was %s when the IRQ was enabled", board.irqTmrState)
	}
}

func TestSetupPeripheralFailureIsFatalBeforeIRQ(t *testing.T) {
	tests := []struct {
		name   string
		modify func(b *mockBoard)
		want   error
	}{
		{"pin taken", func(b *mockBoard) { b.pinErr = ErrPeripheralTaken }, ErrPeripheralTaken},
		{"pin missing", func(b *mockBoard) { b.pinErr = ErrPeripheralMissing }, ErrPeripheralMissing},
		{"timer taken", func(b *mockBoard) { b.timerErr = ErrPeripheralTaken }, ErrPeripheralTaken},
		{"period out of range", func(b *mockBoard) { b.timer.startErr = ErrPeriodOutOfRange }, ErrPeriodOutOfRange},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			board := newMockBoard()
			tc.modify(board)
			var pins Slot[OutputPin]
			var timers Slot[CountdownTimer]

			err := Setup(board, DefaultConfig(), &pins, &timers)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Expected %v, got %v", tc.want, err)
			}
			if board.irq {
				t.Error("Interrupt line enabled after failed setup")
			}
			if pins.State() != SlotEmpty || timers.State() != SlotEmpty {
				t.Errorf("Expected slots untouched, got pin=%s timer=%s", pins.State(), timers.State())
			}

			halt := expectHalt(t, func() { Fatal(err) })
			if halt.Code != HaltPeripheral && halt.Code != HaltContract {
				t.Errorf("Unexpected halt code %d", halt.Code)
			}
		})
	}
}

func TestSetupRejectsInvalidConfig(t *testing.T) {
	board := newMockBoard()
	var pins Slot[OutputPin]
	var timers Slot[CountdownTimer]

	cfg := DefaultConfig()
	cfg.Frequency = 0
	if err := Setup(board, cfg, &pins, &timers); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
	if len(board.calls) != 0 {
		t.Errorf("Expected no peripheral access, got %v", board.calls)
	}
}

func TestSetupOccupiedSlotFails(t *testing.T) {
	board := newMockBoard()
	var pins Slot[OutputPin]
	var timers Slot[CountdownTimer]
	if err := pins.Store(&mockPin{}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if err := Setup(board, DefaultConfig(), &pins, &timers); !errors.Is(err, ErrSlotOccupied) {
		t.Errorf("Expected ErrSlotOccupied, got %v", err)
	}
	if board.irq {
		t.Error("Interrupt line enabled after failed setup")
	}
}

func TestSetupRecordsTrace(t *testing.T) {
	ClearTrace()
	board := newMockBoard()
	var pins Slot[OutputPin]
	var timers Slot[CountdownTimer]

	cfg := DefaultConfig()
	cfg.Frequency = 2 * physic.Hertz
	cfg.InitialLevel = High
	if err := Setup(board, cfg, &pins, &timers); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	var events []TraceEvent
	DrainTrace(func(evt TraceEvent) { events = append(events, evt) })
	if len(events) != 1 || events[0].Type != EvtSetup {
		t.Fatalf("Expected one setup event, got %v", events)
	}
	if events[0].Value1 != 1 || events[0].Value2 != 2000 {
		t.Errorf("Expected level=1 freq=2000mHz, got v1=%d v2=%d", events[0].Value1, events[0].Value2)
	}
}
