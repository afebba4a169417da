//go:build windows

package monitor

import "os"

// Windows has no job-control suspend signal.
var suspendSignals []os.Signal
