//go:build stm32f103

package main

import (
	"periph.io/x/conn/v3/physic"

	"ticktoggle/core"
)

// Toggle once per second, starting with the output off
func firmwareConfig(mode core.Mode) core.Config {
	return core.Config{
		Frequency:    1 * physic.Hertz,
		InitialLevel: core.Low,
		Mode:         mode,
	}
}
