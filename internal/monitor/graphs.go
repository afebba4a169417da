package monitor

import (
	"fmt"
	"math"
	"strings"
)

// ASCII trend bars appended to history lines when graphics are enabled.
//
// Memory bars show the change in used physical memory since the previous tick:
//
//	|###* +0.35    grew by 0.35 GB, one '#' per 0.1 GB
//	|::@ -0.21     shrank by 0.21 GB, one ':' per 0.1 GB
//	|*             first sample, nothing to compare against
//
// CPU bars show the usage itself, one '|' per 2 percentage points:
//
//	||||||| 12.40%
const (
	// RAMGraphicsScale is the GB represented by one memory glyph.
	RAMGraphicsScale = 0.1
	// CPUGraphicsScale is the percentage points represented by one CPU glyph.
	CPUGraphicsScale = 2.0

	glyphBarStart    = "|"
	glyphRAMIncrease = "#"
	glyphRAMDecrease = ":"
	glyphRAMUpEnd    = "*"
	glyphRAMDownEnd  = "@"
	glyphRAMFirst    = "*"
	glyphCPU         = "|"
	glyphEpsilon     = 1e-9
)

// glyphCount returns how many whole scale units fit in value.
// A small epsilon absorbs float error so 0.3/0.1 counts as 3, not 2.
func glyphCount(value, scale float64) int {
	if value <= 0 || scale <= 0 {
		return 0
	}
	n := int(math.Floor(value/scale + glyphEpsilon))
	if n < 0 {
		return 0
	}
	return n
}

// RenderMemoryFirstBar returns the placeholder bar used for the first memory sample.
func RenderMemoryFirstBar() string {
	return glyphBarStart + glyphRAMFirst
}

// RenderMemoryDeltaBar renders the change in used memory between two ticks.
func RenderMemoryDeltaBar(previousGB, currentGB float64) string {
	delta := currentGB - previousGB

	glyph, end := glyphRAMIncrease, glyphRAMUpEnd
	if delta < 0 {
		glyph, end = glyphRAMDecrease, glyphRAMDownEnd
	}

	var b strings.Builder
	b.WriteString(glyphBarStart)
	b.WriteString(strings.Repeat(glyph, glyphCount(math.Abs(delta), RAMGraphicsScale)))
	b.WriteString(end)
	b.WriteString(fmt.Sprintf(" %+.2f", delta))
	return b.String()
}

// RenderCPUBar renders a usage percentage as a bar.
func RenderCPUBar(percent float64) string {
	var b strings.Builder
	b.WriteString(glyphBarStart)
	b.WriteString(strings.Repeat(glyphCPU, glyphCount(percent, CPUGraphicsScale)))
	b.WriteString(fmt.Sprintf(" %.2f%%", percent))
	return b.String()
}

// UsagePercent turns a pair of consecutive CPU readings into a usage
// percentage: (1 - Δidle/Δtotal) × 100. A counter that did not advance, or
// went backwards after a reset, yields 0.
func UsagePercent(previous, current CPUTicks) float64 {
	if current.Total <= previous.Total {
		return 0
	}
	totalDelta := float64(current.Total - previous.Total)

	var idleDelta float64
	if current.Idle > previous.Idle {
		idleDelta = float64(current.Idle - previous.Idle)
	}

	usage := (1.0 - idleDelta/totalDelta) * 100.0
	if usage < 0 {
		return 0
	}
	if usage > 100 {
		return 100
	}
	return usage
}
