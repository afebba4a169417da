package monitor

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/sysmon/internal/config"
)

// UserReporter lists the sessions currently logged in to the host.
type UserReporter struct {
	source Source
	opts   reporterOptions
}

// NewUserReporter creates a reporter reading sessions from src.
func NewUserReporter(src Source, opts ...ReporterOption) *UserReporter {
	return &UserReporter{source: src, opts: newReporterOptions(CategoryUser, opts)}
}

// Category implements Reporter.
func (r *UserReporter) Category() Category {
	return CategoryUser
}

// Report implements Reporter.
func (r *UserReporter) Report(ctx context.Context, cfg config.Config, pipe *Pipe) {
	runTicks(ctx, cfg, pipe, r.opts, func(ctx context.Context, _ int) string {
		return r.render(ctx)
	})
}

func (r *UserReporter) render(ctx context.Context) string {
	sessions, err := r.source.Sessions(ctx)
	if err != nil {
		r.opts.log.Warn("reading sessions: %v", err)
		return composeReport(bannerUsers, []string{diagnostic("user sessions", err)}, nil)
	}

	lines := make([]string, 0, len(sessions))
	for _, s := range sessions {
		lines = append(lines, SessionLine(s))
	}
	return composeReport(bannerUsers, lines, nil)
}

// SessionLine renders one session as "name    terminal (host)". Sessions
// without a remote host are shown as local.
func SessionLine(s UserSession) string {
	host := s.Host
	if host == "" {
		host = "local"
	}
	return fmt.Sprintf("%s    %s (%s)", s.Name, s.Terminal, host)
}
