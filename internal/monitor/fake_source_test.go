package monitor

import (
	"context"
	"sync"
	"time"
)

// fakeSource serves canned readings. CPU ticks and memory snapshots are
// consumed in order; the last one repeats once the list runs out.
type fakeSource struct {
	mu sync.Mutex

	ticks    []CPUTicks
	memory   []MemorySnapshot
	sessions []UserSession
	cores    int
	selfKB   int64
	host     HostInfo

	ticksErr    error
	memoryErr   error
	sessionsErr error
	coresErr    error
	selfErr     error
	hostErr     error

	// memoryDelay makes each Memory read take this long.
	memoryDelay time.Duration

	tickCalls   int
	memoryCalls int
}

func (f *fakeSource) CPUTicks(context.Context) (CPUTicks, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ticksErr != nil {
		return CPUTicks{}, f.ticksErr
	}
	if len(f.ticks) == 0 {
		return CPUTicks{}, nil
	}
	i := f.tickCalls
	if i >= len(f.ticks) {
		i = len(f.ticks) - 1
	}
	f.tickCalls++
	return f.ticks[i], nil
}

func (f *fakeSource) Memory(context.Context) (MemorySnapshot, error) {
	if f.memoryDelay > 0 {
		time.Sleep(f.memoryDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.memoryErr != nil {
		return MemorySnapshot{}, f.memoryErr
	}
	if len(f.memory) == 0 {
		return MemorySnapshot{}, nil
	}
	i := f.memoryCalls
	if i >= len(f.memory) {
		i = len(f.memory) - 1
	}
	f.memoryCalls++
	return f.memory[i], nil
}

func (f *fakeSource) Sessions(context.Context) ([]UserSession, error) {
	return f.sessions, f.sessionsErr
}

func (f *fakeSource) CPUCores(context.Context) (int, error) {
	return f.cores, f.coresErr
}

func (f *fakeSource) SelfResidentKB(context.Context) (int64, error) {
	return f.selfKB, f.selfErr
}

func (f *fakeSource) HostInfo(context.Context) (HostInfo, error) {
	return f.host, f.hostErr
}

// newFakeSource returns a source with a steady, plausible host.
func newFakeSource() *fakeSource {
	return &fakeSource{
		ticks: []CPUTicks{
			{Total: 1000, Idle: 800},
			{Total: 1100, Idle: 850},
			{Total: 1200, Idle: 900},
		},
		memory: []MemorySnapshot{
			{TotalPhysical: 8_000_000_000, FreePhysical: 6_000_000_000, TotalSwap: 2_000_000_000, FreeSwap: 2_000_000_000},
		},
		sessions: []UserSession{{Name: "alice", Terminal: "pts/0", Host: "10.0.0.5"}},
		cores:    4,
		selfKB:   2048,
		host: HostInfo{
			SystemName:   "Linux",
			MachineName:  "build01",
			Release:      "6.1.0",
			Version:      "#1 SMP",
			Architecture: "x86_64",
		},
	}
}

// drain reads every message from pipe until the writer closes it.
func drain(p *Pipe) []Message {
	var out []Message
	for msg := range p.messages {
		out = append(out, msg)
	}
	return out
}
