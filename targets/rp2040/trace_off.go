//go:build rp2040 && !trace

package main

func startTrace() {}

var traceDrain func()
