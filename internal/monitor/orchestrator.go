package monitor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/ui"
)

// Orchestrator spawns one reporter goroutine per enabled category, prints
// their reports in a fixed order for the configured number of samples, and
// reaps every reporter before returning.
type Orchestrator struct {
	cfg       config.Config
	source    Source
	reporters map[Category]Reporter
	bridge    *SignalBridge

	out     io.Writer
	errOut  io.Writer
	display sync.Locker
	unit    time.Duration
	log     logger.Logger

	newPipe func(Category) (*Pipe, error)
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithOutput sets where reports are printed (default stdout).
func WithOutput(w io.Writer) OrchestratorOption {
	return func(o *Orchestrator) { o.out = w }
}

// WithErrorOutput sets where spawn failures are printed (default stderr).
func WithErrorOutput(w io.Writer) OrchestratorOption {
	return func(o *Orchestrator) { o.errOut = w }
}

// WithDisplayLock shares the lock guarding the terminal, typically with a SignalBridge.
func WithDisplayLock(l sync.Locker) OrchestratorOption {
	return func(o *Orchestrator) { o.display = l }
}

// WithSignalBridge installs parent and worker signal handling for the run.
func WithSignalBridge(b *SignalBridge) OrchestratorOption {
	return func(o *Orchestrator) { o.bridge = b }
}

// WithInterval sets the length of one interval unit (default one second).
func WithInterval(unit time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if unit > 0 {
			o.unit = unit
		}
	}
}

// WithOrchestratorLogger sets the diagnostic logger.
func WithOrchestratorLogger(l logger.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// WithReporter replaces the reporter used for its category.
func WithReporter(r Reporter) OrchestratorOption {
	return func(o *Orchestrator) {
		if o.reporters == nil {
			o.reporters = make(map[Category]Reporter)
		}
		o.reporters[r.Category()] = r
	}
}

// WithPipeFactory replaces pipe creation, letting callers simulate a
// category that fails to start.
func WithPipeFactory(f func(Category) (*Pipe, error)) OrchestratorOption {
	return func(o *Orchestrator) { o.newPipe = f }
}

// NewOrchestrator creates an orchestrator for cfg reading from src.
// Reporters not supplied through WithReporter are built from src.
func NewOrchestrator(cfg config.Config, src Source, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		cfg:       cfg,
		source:    src,
		reporters: make(map[Category]Reporter),
		out:       os.Stdout,
		errOut:    os.Stderr,
		display:   &sync.Mutex{},
		unit:      time.Second,
		log:       logger.NewEnvLogger("[orchestrator]"),
		newPipe: func(c Category) (*Pipe, error) {
			return NewPipe(c), nil
		},
	}
	for _, opt := range opts {
		opt(o)
	}

	defaults := map[Category]func() Reporter{
		CategoryMemory: func() Reporter { return NewMemoryReporter(src, WithTimeUnit(o.unit)) },
		CategoryUser:   func() Reporter { return NewUserReporter(src, WithTimeUnit(o.unit)) },
		CategoryCPU:    func() Reporter { return NewCPUReporter(src, WithTimeUnit(o.unit)) },
	}
	for c, build := range defaults {
		if _, ok := o.reporters[c]; !ok && src != nil {
			o.reporters[c] = build()
		}
	}

	return o
}

// Enabled returns the categories cfg asks for, in spawn order. Memory and
// CPU always come together.
func Enabled(cfg config.Config) []Category {
	var cats []Category
	if cfg.ReportUsers {
		cats = append(cats, CategoryUser)
	}
	if cfg.ReportSystem {
		cats = append(cats, CategoryMemory, CategoryCPU)
	}
	return cats
}

// Run executes the whole report. It returns nil on normal completion and
// after a confirmed interrupt; a non-nil error means no reporter could start.
func (o *Orchestrator) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if o.bridge != nil {
		cleanup := o.bridge.InstallParent(ctx, cancel)
		defer cleanup()
	}

	// Reporter tick k is due k intervals after start; sample i waits for
	// tick i until one interval past that.
	start := time.Now()
	interval := time.Duration(o.cfg.Interval) * o.unit

	var wg sync.WaitGroup
	pipes, spawnErr := o.spawn(ctx, &wg)
	if len(pipes) == 0 {
		if spawnErr == nil {
			spawnErr = errors.New(errors.ErrSpawn, "Nothing to report", "Enable --user or --system.")
		}
		return spawnErr
	}

	var systemBlock string
	if o.cfg.ReportSystem {
		systemBlock = o.systemInformation(ctx)
		o.baseline(ctx, start.Add(interval))
	}

	for i := 0; i < o.cfg.Samples; i++ {
		if ctx.Err() != nil {
			o.log.Debug("run cancelled before sample %d", i+1)
			break
		}
		o.iterate(ctx, i, start.Add(time.Duration(i+1)*interval), pipes, systemBlock)
	}

	o.reap(cancel, &wg, pipes)
	return nil
}

// spawn starts a goroutine per enabled category. Categories that cannot
// start are reported and skipped; the others proceed.
func (o *Orchestrator) spawn(ctx context.Context, wg *sync.WaitGroup) (map[Category]*Pipe, error) {
	pipes := make(map[Category]*Pipe)
	var lastErr error

	for _, c := range Enabled(o.cfg) {
		reporter, ok := o.reporters[c]
		if !ok || reporter == nil {
			lastErr = errors.New(errors.ErrSpawn,
				fmt.Sprintf("No %s reporter available", c),
				"The "+c.String()+" report will be skipped.")
			o.surface(lastErr)
			continue
		}

		pipe, err := o.newPipe(c)
		if err != nil || pipe == nil {
			lastErr = errors.WrapWithCode(err, errors.ErrSpawn,
				fmt.Sprintf("Could not create the %s pipe", c),
				"The "+c.String()+" report will be skipped.")
			o.surface(lastErr)
			continue
		}

		workerCtx, workerCancel := o.workerContext(ctx, c)
		wg.Add(1)
		go func(c Category, r Reporter, pipe *Pipe) {
			defer wg.Done()
			defer workerCancel()
			defer func() {
				if rec := recover(); rec != nil {
					o.log.Error("%s reporter crashed: %v", c, rec)
					pipe.CloseWrite()
				}
			}()
			r.Report(workerCtx, o.cfg, pipe)
		}(c, reporter, pipe)

		o.log.Debug("spawned %s reporter", c)
		pipes[c] = pipe
	}

	return pipes, lastErr
}

func (o *Orchestrator) workerContext(ctx context.Context, c Category) (context.Context, context.CancelFunc) {
	if o.bridge != nil {
		return o.bridge.InstallWorker(ctx, c)
	}
	return context.WithCancel(ctx)
}

// baseline takes the orchestrator's own CPU reading and waits until the
// reporters' second tick is due, in step with each CPU warm-up tick.
func (o *Orchestrator) baseline(ctx context.Context, until time.Time) {
	o.display.Lock()
	if !o.cfg.Sequential {
		ui.ClearScreen(o.out)
	}
	fmt.Fprint(o.out, ui.RenderBaselineNotice())
	o.display.Unlock()

	if _, err := o.source.CPUTicks(ctx); err != nil {
		o.log.Warn("baseline cpu reading failed: %v", err)
	}
	sleepContext(ctx, time.Until(until))
}

// iterate prints one sample: header, then each category's payload in
// display order. A category with nothing by deadline is skipped.
func (o *Orchestrator) iterate(ctx context.Context, i int, deadline time.Time, pipes map[Category]*Pipe, systemBlock string) {
	o.display.Lock()
	defer o.display.Unlock()

	// A quit confirmed while we waited for the display.
	if ctx.Err() != nil {
		return
	}

	if !o.cfg.Sequential {
		ui.ClearScreen(o.out)
	}

	headerShown := false
	showHeader := func() {
		if !headerShown {
			fmt.Fprint(o.out, o.header(ctx, i))
			headerShown = true
		}
	}

	for _, c := range DisplayOrder {
		pipe, ok := pipes[c]
		if !ok {
			continue
		}

		msg, ok := pipe.ReceiveBy(ctx, deadline)
		if !ok {
			o.log.Debug("no %s data for sample %d", c, i+1)
			continue
		}

		showHeader()
		fmt.Fprint(o.out, msg.Text)
		if c == CategoryCPU {
			fmt.Fprint(o.out, systemBlock)
		}
	}

	// Every sample gets exactly one header, even when no reporter delivered.
	showHeader()
	fmt.Fprint(o.out, ui.RenderSampleFooter())
}

func (o *Orchestrator) header(ctx context.Context, i int) string {
	h := ui.SampleHeader{
		Sample:   i + 1,
		Samples:  o.cfg.Samples,
		Interval: o.cfg.Interval,
	}
	h.SelfKB, h.SelfErr = o.source.SelfResidentKB(ctx)
	return ui.RenderSampleHeader(h)
}

// systemInformation renders the static host identification block.
func (o *Orchestrator) systemInformation(ctx context.Context) string {
	info, err := o.source.HostInfo(ctx)
	if err != nil {
		o.log.Warn("reading host information: %v", err)
		return composeReport(bannerSystem, []string{diagnostic("system information", err)}, nil)
	}
	return composeReport(bannerSystem, []string{
		"System Name: " + info.SystemName,
		"Machine Name: " + info.MachineName,
		"OS Release: " + info.Release,
		"OS Version: " + info.Version,
		"Architecture: " + info.Architecture,
	}, nil)
}

// reap closes every read end, releases the workers and waits for all of
// them, whatever state each one is in.
func (o *Orchestrator) reap(cancel context.CancelFunc, wg *sync.WaitGroup, pipes map[Category]*Pipe) {
	names := make([]string, 0, len(pipes))
	for c, pipe := range pipes {
		pipe.CloseRead()
		names = append(names, c.String())
	}
	cancel()
	wg.Wait()
	o.log.Debug("reaped reporters: %s", strings.Join(names, ", "))
}

// surface prints a failure so it is never dropped silently.
func (o *Orchestrator) surface(err error) {
	o.log.Warn("%v", strings.TrimSpace(err.Error()))
	fmt.Fprint(o.errOut, ui.RenderError(err))
}
