//go:build stm32f103 && poll

package main

import (
	"context"

	"ticktoggle/core"
)

func main() {
	startTrace()

	// Only returns on a peripheral fault
	err := core.RunPolling(context.Background(), &board{}, firmwareConfig(core.ModePolling))
	core.Fatal(err)
}
