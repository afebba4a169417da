package parsers

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/rileyhilliard/sysmon/internal/monitor"
)

// cpuStatColumns is how many columns of the aggregate cpu line count toward
// total time: user nice system idle iowait irq softirq.
const cpuStatColumns = 7

// ParseLinuxCPUTicks parses the aggregate "cpu" line of /proc/stat.
// Total is the sum of the first seven columns, Idle is the fourth.
func ParseLinuxCPUTicks(procStat string) (monitor.CPUTicks, error) {
	scanner := bufio.NewScanner(strings.NewReader(procStat))

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 5 {
			return monitor.CPUTicks{}, fmt.Errorf("invalid /proc/stat cpu line: %s", line)
		}

		var ticks monitor.CPUTicks
		for i := 1; i < len(fields) && i <= cpuStatColumns; i++ {
			val, err := strconv.ParseUint(fields[i], 10, 64)
			if err != nil {
				return monitor.CPUTicks{}, fmt.Errorf("failed to parse cpu field %d: %w", i, err)
			}
			ticks.Total += val

			// idle is field 4
			if i == 4 {
				ticks.Idle = val
			}
		}
		return ticks, nil
	}

	if err := scanner.Err(); err != nil {
		return monitor.CPUTicks{}, fmt.Errorf("error scanning /proc/stat: %w", err)
	}
	return monitor.CPUTicks{}, fmt.Errorf("/proc/stat formatted incorrectly: no aggregate cpu line")
}

// ParseLinuxMemory parses physical and swap totals from /proc/meminfo output.
func ParseLinuxMemory(procMeminfo string) (monitor.MemorySnapshot, error) {
	var snap monitor.MemorySnapshot
	scanner := bufio.NewScanner(strings.NewReader(procMeminfo))
	var haveTotal, haveFree bool

	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}

		// Values in /proc/meminfo are in kB
		key := strings.TrimSuffix(parts[0], ":")
		val, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			continue
		}
		valBytes := val * 1024

		switch key {
		case "MemTotal":
			snap.TotalPhysical = valBytes
			haveTotal = true
		case "MemFree":
			snap.FreePhysical = valBytes
			haveFree = true
		case "SwapTotal":
			snap.TotalSwap = valBytes
		case "SwapFree":
			snap.FreeSwap = valBytes
		}
	}

	if err := scanner.Err(); err != nil {
		return monitor.MemorySnapshot{}, fmt.Errorf("error scanning /proc/meminfo: %w", err)
	}

	// Swap lines may be absent on some kernels; physical ones may not.
	if !haveTotal || !haveFree || snap.TotalPhysical == 0 {
		return monitor.MemorySnapshot{}, fmt.Errorf("insufficient memory info found in /proc/meminfo: MemTotal and MemFree are required")
	}

	return snap, nil
}

// ParseCPUInfoCores counts "processor" entries in /proc/cpuinfo.
func ParseCPUInfoCores(cpuinfo string) (int, error) {
	scanner := bufio.NewScanner(strings.NewReader(cpuinfo))
	count := 0
	for scanner.Scan() {
		key, _, ok := strings.Cut(scanner.Text(), ":")
		if ok && strings.TrimSpace(key) == "processor" {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("error scanning /proc/cpuinfo: %w", err)
	}
	if count == 0 {
		return 0, fmt.Errorf("no processor entries in /proc/cpuinfo")
	}
	return count, nil
}

// ParseSelfStatusRSS returns the VmRSS value, in kB, from /proc/self/status.
func ParseSelfStatusRSS(status string) (int64, error) {
	scanner := bufio.NewScanner(strings.NewReader(status))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0] != "VmRSS:" {
			continue
		}
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse VmRSS: %w", err)
		}
		return kb, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("error scanning /proc/self/status: %w", err)
	}
	return 0, fmt.Errorf("VmRSS not found in /proc/self/status")
}
