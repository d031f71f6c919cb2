//go:build !windows

package main

import (
	"os"
	"syscall"
)

// SIGHUP stops a serve process whose terminal went away.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
