package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/sysmon/internal/monitor"
)

// DefaultReadTimeout bounds a single metric source read.
const DefaultReadTimeout = 5 * time.Second

// counterReader reads one counter and describes it. An empty description with a
// nil error means the counter is readable but has nothing to show.
type counterReader func(ctx context.Context, src monitor.Source) (string, error)

// SourceCheck verifies that a metric source can serve one counter.
type SourceCheck struct {
	name    string
	label   string
	empty   string
	source  monitor.Source
	read    counterReader
	Timeout time.Duration
}

func (c *SourceCheck) Name() string     { return c.name }
func (c *SourceCheck) Category() string { return "SOURCE" }

func (c *SourceCheck) Run(ctx context.Context) CheckResult {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	desc, err := c.read(ctx, c.source)
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot read %s: %v", c.label, err),
			Suggestion: "Try the other metric source with --source",
		}
	}
	if desc == "" {
		return CheckResult{
			Status:  StatusWarn,
			Message: c.empty,
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("%s: %s", c.label, desc),
	}
}

// SourceChecks returns one check per counter the reporters read from src.
func SourceChecks(src monitor.Source) []Check {
	return []Check{
		&SourceCheck{
			name: "cpu_ticks", label: "CPU ticks", source: src,
			read: func(ctx context.Context, s monitor.Source) (string, error) {
				t, err := s.CPUTicks(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("total %d, idle %d", t.Total, t.Idle), nil
			},
		},
		&SourceCheck{
			name: "memory", label: "Memory", source: src,
			read: func(ctx context.Context, s monitor.Source) (string, error) {
				m, err := s.Memory(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%.2f of %.2f GB physical in use", m.UsedPhysicalGB(), m.TotalPhysicalGB()), nil
			},
		},
		&SourceCheck{
			name: "sessions", label: "Sessions", source: src,
			empty: "No login sessions reported, the user report will be empty",
			read: func(ctx context.Context, s monitor.Source) (string, error) {
				sessions, err := s.Sessions(ctx)
				if err != nil || len(sessions) == 0 {
					return "", err
				}
				return fmt.Sprintf("%d connected", len(sessions)), nil
			},
		},
		&SourceCheck{
			name: "cpu_cores", label: "CPU cores", source: src,
			read: func(ctx context.Context, s monitor.Source) (string, error) {
				n, err := s.CPUCores(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%d", n), nil
			},
		},
		&SourceCheck{
			name: "self_rss", label: "Resident size", source: src,
			read: func(ctx context.Context, s monitor.Source) (string, error) {
				kb, err := s.SelfResidentKB(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%d kB", kb), nil
			},
		},
		&SourceCheck{
			name: "host_info", label: "Host", source: src,
			read: func(ctx context.Context, s monitor.Source) (string, error) {
				h, err := s.HostInfo(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%s %s %s (%s)", h.SystemName, h.MachineName, h.Release, h.Architecture), nil
			},
		},
	}
}
