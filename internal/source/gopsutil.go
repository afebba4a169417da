package source

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/rileyhilliard/sysmon/internal/monitor"
)

// Gopsutil reads host counters through gopsutil. It works on every
// platform gopsutil supports.
type Gopsutil struct {
	pid int32
}

// NewGopsutil creates a gopsutil backed source for the current process.
func NewGopsutil() *Gopsutil {
	return &Gopsutil{pid: int32(os.Getpid())}
}

// CPUTicks implements monitor.Source.
func (g *Gopsutil) CPUTicks(ctx context.Context) (monitor.CPUTicks, error) {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return monitor.CPUTicks{}, fmt.Errorf("reading cpu times: %w", err)
	}
	if len(times) == 0 {
		return monitor.CPUTicks{}, fmt.Errorf("reading cpu times: no aggregate entry")
	}
	return ticksFromTimes(times[0]), nil
}

// ticksFromTimes sums the same columns /proc/stat contributes to total
// time: user, nice, system, idle, iowait, irq and softirq.
func ticksFromTimes(t cpu.TimesStat) monitor.CPUTicks {
	total := t.User + t.Nice + t.System + t.Idle + t.Iowait + t.Irq + t.Softirq
	return monitor.CPUTicks{
		Total: secondsToTicks(total),
		Idle:  secondsToTicks(t.Idle),
	}
}

func secondsToTicks(s float64) uint64 {
	if s <= 0 {
		return 0
	}
	return uint64(math.Round(s * ticksPerSecond))
}

// Memory implements monitor.Source.
func (g *Gopsutil) Memory(ctx context.Context) (monitor.MemorySnapshot, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return monitor.MemorySnapshot{}, fmt.Errorf("reading virtual memory: %w", err)
	}
	swap, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return monitor.MemorySnapshot{}, fmt.Errorf("reading swap: %w", err)
	}

	return monitor.MemorySnapshot{
		TotalPhysical: vm.Total,
		FreePhysical:  vm.Free,
		TotalSwap:     swap.Total,
		FreeSwap:      swap.Free,
	}, nil
}

// Sessions implements monitor.Source.
func (g *Gopsutil) Sessions(ctx context.Context) ([]monitor.UserSession, error) {
	return gopsutilSessions(ctx)
}

func gopsutilSessions(ctx context.Context) ([]monitor.UserSession, error) {
	users, err := host.UsersWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading logged in users: %w", err)
	}

	sessions := make([]monitor.UserSession, 0, len(users))
	for _, u := range users {
		sessions = append(sessions, monitor.UserSession{
			Name:     u.User,
			Terminal: u.Terminal,
			Host:     u.Host,
		})
	}
	return sessions, nil
}

// CPUCores implements monitor.Source. Logical cores are counted, matching
// the processor entries in /proc/cpuinfo.
func (g *Gopsutil) CPUCores(ctx context.Context) (int, error) {
	n, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("counting cpu cores: %w", err)
	}
	return n, nil
}

// SelfResidentKB implements monitor.Source.
func (g *Gopsutil) SelfResidentKB(ctx context.Context) (int64, error) {
	p, err := process.NewProcessWithContext(ctx, g.pid)
	if err != nil {
		return 0, fmt.Errorf("finding own process: %w", err)
	}
	info, err := p.MemoryInfoWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading own memory: %w", err)
	}
	return int64(info.RSS / 1024), nil
}

// HostInfo implements monitor.Source.
func (g *Gopsutil) HostInfo(ctx context.Context) (monitor.HostInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return monitor.HostInfo{}, fmt.Errorf("reading host info: %w", err)
	}

	return monitor.HostInfo{
		SystemName:   titleOS(info.OS),
		MachineName:  info.Hostname,
		Release:      info.KernelVersion,
		Version:      strings.TrimSpace(info.Platform + " " + info.PlatformVersion),
		Architecture: info.KernelArch,
	}, nil
}
