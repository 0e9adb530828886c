//go:build rp2040 && trace

package main

import (
	"machine"

	"ticktoggle/protocol"
)

var tracer *protocol.TraceWriter

// startTrace streams trace frames over the default serial port (USB CDC)
func startTrace() {
	startHardwareClock()
	tracer = protocol.NewTraceWriter(machine.Serial)
}

func traceDrain() {
	tracer.Drain()
}
