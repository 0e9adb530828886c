//go:build stm32f103 && trace

package main

import (
	"machine"

	"ticktoggle/core"
	"ticktoggle/protocol"
	"ticktoggle/targets/firmware"
)

var tracer *protocol.TraceWriter

// startTrace streams trace frames on USART1 (PA9 TX)
func startTrace() {
	uart := machine.DefaultUART
	if err := uart.Configure(machine.UARTConfig{BaudRate: firmware.TraceBaud}); err != nil {
		core.Fatal(err)
	}
	firmware.StartClock()
	tracer = protocol.NewTraceWriter(uart)
}

func traceDrain() {
	tracer.Drain()
}
