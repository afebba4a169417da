//go:build !windows

package monitor

import (
	"os"
	"syscall"
)

// suspendSignals are ignored while the orchestrator runs.
var suspendSignals = []os.Signal{syscall.SIGTSTP}
