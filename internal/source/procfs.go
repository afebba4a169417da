package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/rileyhilliard/sysmon/internal/monitor/parsers"
)

// DefaultProcRoot is where the kernel mounts procfs.
const DefaultProcRoot = "/proc"

// Procfs reads counters straight from a procfs tree. Root is normally
// /proc; tests point it at a fixture directory.
//
// Sessions are not exposed through procfs, so they come from the utmp
// database via gopsutil.
type Procfs struct {
	Root string
}

// NewProcfs creates a procfs source rooted at root.
func NewProcfs(root string) *Procfs {
	if root == "" {
		root = DefaultProcRoot
	}
	return &Procfs{Root: root}
}

func (p *Procfs) read(parts ...string) (string, error) {
	path := filepath.Join(append([]string{p.Root}, parts...)...)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// CPUTicks implements monitor.Source.
func (p *Procfs) CPUTicks(context.Context) (monitor.CPUTicks, error) {
	stat, err := p.read("stat")
	if err != nil {
		return monitor.CPUTicks{}, fmt.Errorf("reading stat: %w", err)
	}
	return parsers.ParseLinuxCPUTicks(stat)
}

// Memory implements monitor.Source.
func (p *Procfs) Memory(context.Context) (monitor.MemorySnapshot, error) {
	meminfo, err := p.read("meminfo")
	if err != nil {
		return monitor.MemorySnapshot{}, fmt.Errorf("reading meminfo: %w", err)
	}
	return parsers.ParseLinuxMemory(meminfo)
}

// Sessions implements monitor.Source.
func (p *Procfs) Sessions(ctx context.Context) ([]monitor.UserSession, error) {
	return gopsutilSessions(ctx)
}

// CPUCores implements monitor.Source.
func (p *Procfs) CPUCores(context.Context) (int, error) {
	cpuinfo, err := p.read("cpuinfo")
	if err != nil {
		return 0, fmt.Errorf("reading cpuinfo: %w", err)
	}
	return parsers.ParseCPUInfoCores(cpuinfo)
}

// SelfResidentKB implements monitor.Source.
func (p *Procfs) SelfResidentKB(context.Context) (int64, error) {
	status, err := p.read("self", "status")
	if err != nil {
		return 0, fmt.Errorf("reading own status: %w", err)
	}
	return parsers.ParseSelfStatusRSS(status)
}

// HostInfo implements monitor.Source. The fields mirror uname(2) as exposed
// under sys/kernel.
func (p *Procfs) HostInfo(context.Context) (monitor.HostInfo, error) {
	var info monitor.HostInfo
	fields := []struct {
		name string
		dst  *string
	}{
		{"ostype", &info.SystemName},
		{"hostname", &info.MachineName},
		{"osrelease", &info.Release},
		{"version", &info.Version},
	}
	for _, f := range fields {
		v, err := p.read("sys", "kernel", f.name)
		if err != nil {
			return monitor.HostInfo{}, fmt.Errorf("reading kernel %s: %w", f.name, err)
		}
		*f.dst = strings.TrimSpace(v)
	}

	// sys/kernel/arch only exists on newer kernels.
	if arch, err := p.read("sys", "kernel", "arch"); err == nil {
		info.Architecture = strings.TrimSpace(arch)
	} else {
		info.Architecture = runtime.GOARCH
	}

	return info, nil
}
