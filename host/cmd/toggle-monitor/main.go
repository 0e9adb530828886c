package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"periph.io/x/conn/v3/physic"

	"ticktoggle/core"
	"ticktoggle/host/monitor"
	"ticktoggle/host/serial"
)

var (
	device    = flag.String("device", "/dev/ttyUSB0", "Serial device path")
	baud      = flag.Int("baud", serial.DefaultBaud, "Baud rate of the trace UART")
	tolerance = flag.Duration("tolerance", 2*time.Millisecond, "Allowed deviation between consecutive toggles")
	initial   = flag.String("initial", "low", "Initial pin level when the setup event is missed (low|high)")
	verbose   = flag.Bool("verbose", false, "Print every trace event")
	freq      physic.Frequency
)

func main() {
	flag.Var(&freq, "freq", "Expected toggle frequency, e.g. 1Hz (default: learned from the setup event)")
	flag.Parse()

	level, err := parseLevel(*initial)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var period time.Duration
	if freq > 0 {
		period = freq.Period()
	}

	port, err := serial.Open(&serial.Config{Device: *device, Baud: *baud, ReadTimeout: 100})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Monitoring %s at %d baud (Ctrl-C to stop)\n", *device, *baud)

	stream := monitor.NewStream(port, true)
	checker := monitor.NewChecker(period, *tolerance, level)
	for {
		evt, err := stream.Next(ctx)
		if errors.Is(err, context.Canceled) {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: read failed: %v\n", err)
			break
		}

		if *verbose {
			fmt.Println(core.FormatTrace(evt))
		}
		if err := checker.Observe(evt); err != nil {
			fmt.Println("!!", err)
		}
		if evt.Type == core.EvtSetup {
			fmt.Printf("Board reset: initial level %v, period %v\n", core.Level(evt.Value1 != 0), checker.Period())
		}
	}

	printSummary(stream, checker)
	if checker.Violations() > 0 {
		os.Exit(1)
	}
}

func parseLevel(s string) (core.Level, error) {
	switch strings.ToLower(s) {
	case "low", "0":
		return core.Low, nil
	case "high", "1":
		return core.High, nil
	}
	return core.Low, fmt.Errorf("invalid level %q", s)
}

func printSummary(stream *monitor.Stream, checker *monitor.Checker) {
	fmt.Println("\n=== Trace Summary ===")
	fmt.Printf("Toggles:     %d\n", checker.Toggles())
	fmt.Printf("Spurious:    %d\n", checker.Spurious())
	fmt.Printf("Dropped:     %d\n", checker.Dropped())
	fmt.Printf("Violations:  %d\n", checker.Violations())
	fmt.Printf("Lost frames: %d\n", stream.Lost())
	fmt.Printf("Resyncs:     %d\n", stream.Resyncs())
	if halted, code := checker.Halted(); halted {
		fmt.Printf("Board halted with code %d\n", code)
	}
	fmt.Println("=====================")
}
