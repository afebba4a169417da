package monitor

import (
	"context"
	"strings"
	"unicode/utf8"
)

// MaxMessageSize bounds a single report message, matching the size of the
// pipe buffer a reporter writes into each tick.
const MaxMessageSize = 4096

// BytesPerGB is the decimal gigabyte used by the memory report.
const BytesPerGB = 1e9

// Category identifies one kind of report.
type Category int

const (
	CategoryMemory Category = iota
	CategoryUser
	CategoryCPU
)

// DisplayOrder is the fixed order categories are printed in every tick,
// independent of spawn or completion order.
var DisplayOrder = []Category{CategoryMemory, CategoryUser, CategoryCPU}

func (c Category) String() string {
	switch c {
	case CategoryMemory:
		return "memory"
	case CategoryUser:
		return "user"
	case CategoryCPU:
		return "cpu"
	default:
		return "unknown"
	}
}

// CPUTicks is one reading of the aggregate CPU time counters.
type CPUTicks struct {
	Total uint64
	Idle  uint64
}

// MemorySnapshot is one reading of physical and swap memory, in bytes.
type MemorySnapshot struct {
	TotalPhysical uint64
	FreePhysical  uint64
	TotalSwap     uint64
	FreeSwap      uint64
}

// UsedPhysicalGB returns total minus free physical memory in GB.
func (m MemorySnapshot) UsedPhysicalGB() float64 {
	return float64(subFloor(m.TotalPhysical, m.FreePhysical)) / BytesPerGB
}

// TotalPhysicalGB returns the physical memory size in GB.
func (m MemorySnapshot) TotalPhysicalGB() float64 {
	return float64(m.TotalPhysical) / BytesPerGB
}

// TotalVirtualGB returns physical plus swap in GB.
func (m MemorySnapshot) TotalVirtualGB() float64 {
	return float64(m.TotalPhysical+m.TotalSwap) / BytesPerGB
}

// UsedVirtualGB returns (physical+swap) minus (free physical+free swap) in GB.
func (m MemorySnapshot) UsedVirtualGB() float64 {
	return float64(subFloor(m.TotalPhysical+m.TotalSwap, m.FreePhysical+m.FreeSwap)) / BytesPerGB
}

// subFloor returns a-b, or 0 when a counter reports more free than total.
func subFloor(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// UserSession is one logged in user.
type UserSession struct {
	Name     string
	Terminal string
	Host     string
}

// HostInfo is the static identification printed after the CPU report.
type HostInfo struct {
	SystemName   string
	MachineName  string
	Release      string
	Version      string
	Architecture string
}

// Source reads host counters. Every call is synchronous and independent;
// reporters substitute a diagnostic line when one fails.
type Source interface {
	CPUTicks(ctx context.Context) (CPUTicks, error)
	Memory(ctx context.Context) (MemorySnapshot, error)
	Sessions(ctx context.Context) ([]UserSession, error)
	CPUCores(ctx context.Context) (int, error)
	SelfResidentKB(ctx context.Context) (int64, error)
	HostInfo(ctx context.Context) (HostInfo, error)
}

// Message is one tick's report, transferred whole over a Pipe.
type Message struct {
	Category Category
	Text     string
}

// NewMessage builds a message, truncating text to MaxMessageSize bytes
// without splitting a UTF-8 sequence.
func NewMessage(c Category, text string) Message {
	return Message{Category: c, Text: truncateUTF8(text, MaxMessageSize)}
}

// Empty reports whether the message carries nothing to print.
func (m Message) Empty() bool {
	return strings.TrimSpace(m.Text) == ""
}

func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
