package monitor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/ui"
)

// quitPrompt is asked on the controlling terminal after an interrupt.
const quitPrompt = "Do you want to quit?"

// SignalBridge owns the process signal handling for a run.
//
// Parent mode (the orchestrator): suspend signals are ignored so the tool
// cannot be backgrounded mid-report, and an interrupt asks for confirmation
// before quitting. Worker mode (reporters): interrupts never reach the
// worker; it stops only when the orchestrator's confirmed quit cancels it.
type SignalBridge struct {
	confirm Confirmer
	display sync.Locker
	errOut  io.Writer
	log     logger.Logger

	notify func(c chan<- os.Signal, sig ...os.Signal)
	stop   func(c chan<- os.Signal)
	ignore func(sig ...os.Signal)
	reset  func(sig ...os.Signal)

	quit     chan struct{}
	quitOnce sync.Once
}

// BridgeOption configures a SignalBridge.
type BridgeOption func(*SignalBridge)

// WithSignalFuncs replaces the os/signal functions, for tests.
func WithSignalFuncs(
	notify func(c chan<- os.Signal, sig ...os.Signal),
	stop func(c chan<- os.Signal),
	ignore func(sig ...os.Signal),
	reset func(sig ...os.Signal),
) BridgeOption {
	return func(b *SignalBridge) {
		b.notify = notify
		b.stop = stop
		b.ignore = ignore
		b.reset = reset
	}
}

// WithBridgeLogger sets the bridge's diagnostic logger.
func WithBridgeLogger(l logger.Logger) BridgeOption {
	return func(b *SignalBridge) {
		if l != nil {
			b.log = l
		}
	}
}

// WithBridgeErrorOutput sets where a failed confirmation is reported
// (default stderr).
func WithBridgeErrorOutput(w io.Writer) BridgeOption {
	return func(b *SignalBridge) {
		if w != nil {
			b.errOut = w
		}
	}
}

// NewSignalBridge creates a bridge. display is held while the confirmation
// prompt is shown so it never interleaves with a half-printed iteration.
func NewSignalBridge(confirm Confirmer, display sync.Locker, opts ...BridgeOption) *SignalBridge {
	b := &SignalBridge{
		confirm: confirm,
		display: display,
		errOut:  os.Stderr,
		log:     logger.NewEnvLogger("[signals]"),
		notify:  signal.Notify,
		stop:    signal.Stop,
		ignore:  signal.Ignore,
		reset:   signal.Reset,
		quit:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// InstallParent installs orchestrator handling. onQuit runs at most once,
// only after the user explicitly confirms. The returned cleanup restores
// default handling and waits for the handler goroutine to exit.
func (b *SignalBridge) InstallParent(ctx context.Context, onQuit func()) (cleanup func()) {
	if len(suspendSignals) > 0 {
		b.ignore(suspendSignals...)
	}

	sigCh := make(chan os.Signal, 1)
	b.notify(sigCh, os.Interrupt)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-sigCh:
				if !ok {
					return
				}
				b.log.Debug("received %s, asking for confirmation", sig)
				if b.confirmQuit() {
					b.quitOnce.Do(func() { close(b.quit) })
					if onQuit != nil {
						onQuit()
					}
					return
				}
				b.log.Debug("quit declined, resuming")
			}
		}
	}()

	return func() {
		b.stop(sigCh)
		close(sigCh)
		<-done
		if len(suspendSignals) > 0 {
			b.reset(suspendSignals...)
		}
	}
}

// InstallWorker installs worker handling for a reporter about to start and
// returns the context the reporter must run under. It is done only when
// parent is done or a quit has been confirmed; an interrupt alone never
// stops a worker.
func (b *SignalBridge) InstallWorker(parent context.Context, c Category) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-b.quit:
			b.log.Debug("%s worker released by confirmed quit", c)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// Quit returns a channel closed once the user has confirmed quitting.
func (b *SignalBridge) Quit() <-chan struct{} {
	return b.quit
}

func (b *SignalBridge) confirmQuit() bool {
	b.display.Lock()
	defer b.display.Unlock()

	ok, err := b.confirm.Confirm(quitPrompt)
	if err != nil {
		failure := errors.WrapWithCode(err, errors.ErrSignal,
			"Could not ask whether to quit",
			"The report keeps running. Press Ctrl+C again to retry.")
		b.log.Warn("interrupt confirmation failed, continuing: %v", err)
		fmt.Fprint(b.errOut, ui.RenderError(failure))
		return false
	}
	return ok
}
