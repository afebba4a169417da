package monitor

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/sysmon/internal/config"
)

const baselineNotice = "Grabbing baseline sample for usage next sample..."

// CPUReporter reports CPU utilization computed from consecutive tick
// counter readings. The first successful reading only seeds the baseline;
// after that the baseline rolls forward every tick.
type CPUReporter struct {
	source Source
	opts   reporterOptions
}

// NewCPUReporter creates a reporter reading CPU counters from src.
func NewCPUReporter(src Source, opts ...ReporterOption) *CPUReporter {
	return &CPUReporter{source: src, opts: newReporterOptions(CategoryCPU, opts)}
}

// Category implements Reporter.
func (r *CPUReporter) Category() Category {
	return CategoryCPU
}

// Report implements Reporter.
func (r *CPUReporter) Report(ctx context.Context, cfg config.Config, pipe *Pipe) {
	state := &cpuState{history: NewHistory(cfg.Samples)}
	runTicks(ctx, cfg, pipe, r.opts, func(ctx context.Context, _ int) string {
		return r.render(ctx, cfg.Graphics, state)
	})
}

// cpuState is the per-run state of a CPU reporter.
type cpuState struct {
	previous    CPUTicks
	hasBaseline bool
	history     *History
}

func (r *CPUReporter) render(ctx context.Context, graphics bool, state *cpuState) string {
	cores := r.coresLine(ctx)

	ticks, err := r.source.CPUTicks(ctx)
	if err != nil {
		r.opts.log.Warn("reading cpu ticks: %v", err)
		return composeReport(bannerCPU, []string{cores, diagnostic("CPU usage", err)}, state.history.Lines())
	}

	if !state.hasBaseline {
		state.previous = ticks
		state.hasBaseline = true
		return composeReport(bannerCPU, []string{cores, baselineNotice}, nil)
	}

	usage := UsagePercent(state.previous, ticks)
	state.previous = ticks

	state.history.Push(CPUHistoryLine(usage, graphics))
	state.history.PushValue(usage)

	return composeReport(bannerCPU,
		[]string{cores, fmt.Sprintf("CPU Usage: %.2f%%", usage)},
		state.history.Lines())
}

func (r *CPUReporter) coresLine(ctx context.Context) string {
	n, err := r.source.CPUCores(ctx)
	if err != nil {
		r.opts.log.Warn("reading cpu cores: %v", err)
		return fmt.Sprintf("Number of CPU Cores: unavailable (%v)", err)
	}
	return fmt.Sprintf("Number of CPU Cores: %d", n)
}

// CPUHistoryLine renders one usage sample for the history list.
func CPUHistoryLine(percent float64, graphics bool) string {
	if graphics {
		return RenderCPUBar(percent)
	}
	return fmt.Sprintf("%.2f%%", percent)
}
