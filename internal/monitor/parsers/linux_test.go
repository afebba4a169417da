package parsers

import (
	"testing"

	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLinuxCPUTicks(t *testing.T) {
	tests := []struct {
		name     string
		procStat string
		want     monitor.CPUTicks
		wantErr  bool
	}{
		{
			name: "two core system sums the first seven columns",
			procStat: `cpu  100 10 50 800 20 5 15 7 0 0
cpu0 50 5 25 400 10 2 8 3 0 0
cpu1 50 5 25 400 10 3 7 4 0 0`,
			want: monitor.CPUTicks{Total: 1000, Idle: 800},
		},
		{
			name:     "short line without irq columns",
			procStat: "cpu  300 0 100 600\n",
			want:     monitor.CPUTicks{Total: 1000, Idle: 600},
		},
		{
			name:     "aggregate line after other content",
			procStat: "intr 1 2 3\ncpu  1 1 1 1 1 1 1\n",
			want:     monitor.CPUTicks{Total: 7, Idle: 1},
		},
		{
			name:     "invalid cpu line",
			procStat: "cpu  invalid data here now",
			wantErr:  true,
		},
		{
			name:     "too few fields",
			procStat: "cpu  1 2",
			wantErr:  true,
		},
		{
			name:     "missing aggregate line",
			procStat: "cpu0 1 2 3 4 5 6 7",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLinuxCPUTicks(tt.procStat)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLinuxMemory(t *testing.T) {
	meminfo := `MemTotal:       16384000 kB
MemFree:         1234567 kB
MemAvailable:    8765432 kB
Buffers:          123456 kB
Cached:          4567890 kB
SwapTotal:       2097148 kB
SwapFree:        2000000 kB`

	snap, err := ParseLinuxMemory(meminfo)
	require.NoError(t, err)

	assert.Equal(t, uint64(16384000*1024), snap.TotalPhysical)
	assert.Equal(t, uint64(1234567*1024), snap.FreePhysical)
	assert.Equal(t, uint64(2097148*1024), snap.TotalSwap)
	assert.Equal(t, uint64(2000000*1024), snap.FreeSwap)
}

func TestParseLinuxMemory_NoSwap(t *testing.T) {
	snap, err := ParseLinuxMemory("MemTotal: 1000 kB\nMemFree: 500 kB\n")
	require.NoError(t, err)
	assert.Zero(t, snap.TotalSwap)
	assert.Equal(t, uint64(500*1024), snap.FreePhysical)
}

func TestParseLinuxMemory_Insufficient(t *testing.T) {
	tests := []struct {
		name    string
		meminfo string
	}{
		{"empty", ""},
		{"unrelated fields", "Buffers: 10 kB\n"},
		{"total and swap without free", "MemTotal: 1000 kB\nSwapTotal: 200 kB\n"},
		{"free and swap without total", "MemFree: 500 kB\nSwapFree: 200 kB\n"},
		{"unparsable free", "MemTotal: 1000 kB\nMemFree: lots kB\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLinuxMemory(tt.meminfo)
			assert.Error(t, err)
		})
	}
}

func TestParseLinuxMemory_ZeroFree(t *testing.T) {
	snap, err := ParseLinuxMemory("MemTotal: 1000 kB\nMemFree: 0 kB\n")
	require.NoError(t, err)
	assert.Zero(t, snap.FreePhysical)
}

func TestParseCPUInfoCores(t *testing.T) {
	cpuinfo := `processor	: 0
vendor_id	: GenuineIntel
model name	: Intel(R) Core(TM)

processor	: 1
vendor_id	: GenuineIntel

processor	: 2
`
	n, err := ParseCPUInfoCores(cpuinfo)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = ParseCPUInfoCores("vendor_id : x\n")
	assert.Error(t, err)
}

func TestParseSelfStatusRSS(t *testing.T) {
	status := `Name:	sysmon
VmPeak:	  712345 kB
VmRSS:	    5120 kB
Threads:	6`

	kb, err := ParseSelfStatusRSS(status)
	require.NoError(t, err)
	assert.Equal(t, int64(5120), kb)

	_, err = ParseSelfStatusRSS("Name: sysmon\n")
	assert.Error(t, err)

	_, err = ParseSelfStatusRSS("VmRSS: lots kB\n")
	assert.Error(t, err)
}
