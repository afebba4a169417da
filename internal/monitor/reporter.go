package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/logger"
)

// Section banners framing each report block.
const (
	bannerUsers  = "----------Users-----------------------"
	bannerMemory = "----------Memory-Usage----------------"
	bannerCPU    = "----------CPU-Usage-------------------"
	bannerSystem = "----------System-Information----------"
	bannerEnd    = "--------------------------------------"
)

// Reporter produces one category's report as a goroutine: one message per
// tick for cfg.Samples ticks, written to pipe, which it closes when done.
type Reporter interface {
	Category() Category
	Report(ctx context.Context, cfg config.Config, pipe *Pipe)
}

type reporterOptions struct {
	unit time.Duration
	log  logger.Logger
}

// ReporterOption configures a reporter.
type ReporterOption func(*reporterOptions)

// WithTimeUnit sets the length of one interval unit. Config.Interval is
// multiplied by it; the default is one second.
func WithTimeUnit(d time.Duration) ReporterOption {
	return func(o *reporterOptions) {
		if d > 0 {
			o.unit = d
		}
	}
}

// WithLogger sets the reporter's diagnostic logger.
func WithLogger(l logger.Logger) ReporterOption {
	return func(o *reporterOptions) {
		if l != nil {
			o.log = l
		}
	}
}

func newReporterOptions(c Category, opts []ReporterOption) reporterOptions {
	o := reporterOptions{
		unit: time.Second,
		log:  logger.NewEnvLogger("[" + c.String() + "]"),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// renderFunc renders the report text for one tick.
type renderFunc func(ctx context.Context, tick int) string

// runTicks drives a reporter: render, send, wait for the next tick, for
// cfg.Samples ticks. Tick k fires k intervals after the reporter starts, so
// render and send time never push later ticks back. The pipe's write end is
// always closed on return.
func runTicks(ctx context.Context, cfg config.Config, pipe *Pipe, o reporterOptions, render renderFunc) {
	defer pipe.CloseWrite()

	ticker := time.NewTicker(time.Duration(cfg.Interval) * o.unit)
	defer ticker.Stop()

	for tick := 0; tick < cfg.Samples; tick++ {
		if tick > 0 {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				o.log.Debug("cancelled before tick %d", tick)
				return
			}
		}

		msg := NewMessage(pipe.Category(), render(ctx, tick))
		if err := pipe.Send(ctx, msg); err != nil {
			o.log.Debug("stopping at tick %d: %v", tick, err)
			return
		}
	}
}

// sleepContext waits for d, returning false if ctx finished first.
func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// diagnostic is the line shown in place of data when a counter cannot be read.
func diagnostic(what string, err error) string {
	return fmt.Sprintf("Error fetching %s: %v", what, err)
}

// composeReport frames body and history lines between banners. When the
// result would not fit in one message the oldest history lines are dropped.
func composeReport(banner string, body, history []string) string {
	render := func(history []string) string {
		var b strings.Builder
		b.WriteString(banner)
		b.WriteString("\n")
		for _, line := range body {
			b.WriteString(line)
			b.WriteString("\n")
		}
		for _, line := range history {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString(bannerEnd)
		b.WriteString("\n")
		return b.String()
	}

	out := render(history)
	for len(out) > MaxMessageSize && len(history) > 0 {
		history = history[1:]
		out = render(history)
	}
	return out
}
