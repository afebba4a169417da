package monitor

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/sysmon/internal/config"
)

// MemoryReporter reports physical and virtual memory use, reprinting the
// whole history each tick.
type MemoryReporter struct {
	source Source
	opts   reporterOptions
}

// NewMemoryReporter creates a reporter reading memory totals from src.
func NewMemoryReporter(src Source, opts ...ReporterOption) *MemoryReporter {
	return &MemoryReporter{source: src, opts: newReporterOptions(CategoryMemory, opts)}
}

// Category implements Reporter.
func (r *MemoryReporter) Category() Category {
	return CategoryMemory
}

// Report implements Reporter.
func (r *MemoryReporter) Report(ctx context.Context, cfg config.Config, pipe *Pipe) {
	history := NewHistory(cfg.Samples)
	runTicks(ctx, cfg, pipe, r.opts, func(ctx context.Context, _ int) string {
		return r.render(ctx, cfg.Graphics, history)
	})
}

func (r *MemoryReporter) render(ctx context.Context, graphics bool, history *History) string {
	snap, err := r.source.Memory(ctx)
	if err != nil {
		r.opts.log.Warn("reading memory: %v", err)
		return composeReport(bannerMemory, []string{diagnostic("memory usage", err)}, history.Lines())
	}

	history.Push(MemoryLine(snap, graphics, history))
	return composeReport(bannerMemory, nil, history.Lines())
}

// MemoryLine renders one memory sample. With graphics it also records the
// used physical GB in history and appends a bar showing the change since
// the previous recorded sample.
func MemoryLine(snap MemorySnapshot, graphics bool, history *History) string {
	used := snap.UsedPhysicalGB()
	line := fmt.Sprintf("Physical: %.2f GB / %.2f GB       Virtual: %.2f GB / %.2f GB",
		used, snap.TotalPhysicalGB(), snap.UsedVirtualGB(), snap.TotalVirtualGB())

	if !graphics {
		return line
	}

	bar := RenderMemoryFirstBar()
	if previous, ok := history.LastValue(); ok {
		bar = RenderMemoryDeltaBar(previous, used)
	}
	history.PushValue(used)

	return line + "       " + bar
}
