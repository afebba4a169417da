// Package source provides the host counter backends behind monitor.Source.
//
// Two backends are available:
//
//	gopsutil - portable readings through github.com/shirou/gopsutil
//	procfs   - direct reads of /proc, Linux only
//
// Both report CPU time in clock ticks (hundredths of a second) so usage
// deltas are comparable between them.
package source

import (
	"strings"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/monitor"
)

// ticksPerSecond converts CPU seconds into USER_HZ clock ticks.
const ticksPerSecond = 100

// New returns the backend registered under name.
func New(name string) (monitor.Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", config.SourceGopsutil:
		return NewGopsutil(), nil
	case config.SourceProcfs:
		return NewProcfs(DefaultProcRoot), nil
	default:
		return nil, config.UnknownSourceError(name)
	}
}

// titleOS capitalizes a lower case OS name ("linux" -> "Linux").
func titleOS(os string) string {
	if os == "" {
		return os
	}
	return strings.ToUpper(os[:1]) + os[1:]
}
