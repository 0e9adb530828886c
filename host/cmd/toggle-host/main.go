package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"ticktoggle/core"
	"ticktoggle/host/hostboard"
)

var (
	configPath = flag.String("config", "", "JSON configuration file")
	pinName    = flag.String("pin", "", "GPIO name, overrides the config file")
	freq       = flag.String("freq", "", "Toggle frequency, e.g. 2Hz; overrides the config file")
	poll       = flag.Bool("poll", false, "Busy-wait on the timer instead of using the interrupt")
	trace      = flag.Bool("trace", false, "Print trace events")
)

func main() {
	flag.Parse()

	cfg := hostboard.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = hostboard.LoadConfig(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *pinName != "" {
		cfg.Pin = *pinName
	}
	if *freq != "" {
		cfg.Frequency = *freq
	}
	if *poll {
		cfg.Mode = "polling"
	}
	if *trace {
		cfg.Trace = true
	}

	if cfg.Trace {
		core.SetDebugWriter(func(s string) { fmt.Println(s) })
		core.SetDebugEnabled(true)
	}

	if _, err := host.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize periph host: %v\n", err)
		os.Exit(1)
	}

	line := gpioreg.ByName(cfg.Pin)
	if line == nil {
		fmt.Fprintf(os.Stderr, "Error: no GPIO named %q\n", cfg.Pin)
		os.Exit(1)
	}

	board := hostboard.NewBoard(line, clockwork.NewRealClock(), hostboard.NewController())
	defer board.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Toggling %s at %s in %s mode (Ctrl-C to stop)\n", cfg.Pin, cfg.Frequency, cfg.Mode)

	err := hostboard.Run(ctx, cfg, board)
	if p := board.Pin(); p != nil {
		fmt.Printf("Stopped with %s %v\n", p.Name(), p.Level())
	}

	var halt *core.Halt
	switch {
	case errors.As(err, &halt):
		fmt.Fprintf(os.Stderr, "Error: board halted (code %d): %v\n", halt.Code, halt.Err)
		os.Exit(1)
	case err != nil && !errors.Is(err, context.Canceled):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
