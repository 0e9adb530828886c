//go:build stm32f103 && !trace

package main

func startTrace() {}

// traceDrain is nil so the idle loop has nothing to run after a wake-up
var traceDrain func()
