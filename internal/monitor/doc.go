// Package monitor implements the periodic host resource report: logged in
// sessions, CPU utilization, and memory usage, sampled a fixed number of
// times at a fixed interval.
//
// # Architecture
//
// One Orchestrator owns the terminal. For every enabled category it starts
// one Reporter goroutine and connects it with a one-way Pipe:
//
//	Orchestrator ──spawn──> UserReporter   ──Pipe──> Orchestrator
//	             ──spawn──> MemoryReporter ──Pipe──> Orchestrator
//	             ──spawn──> CPUReporter    ──Pipe──> Orchestrator
//
// Reporters sample independently and never talk to each other. Each tick a
// reporter renders its whole report (banner, current reading, history) and
// sends it as one Message. The orchestrator reads the pipes in DisplayOrder
// (memory, users, CPU) so the layout never depends on which goroutine
// finished first.
//
// # Timing
//
// Every reporter ticks on a fixed schedule: tick k is due k intervals after
// the run starts, however long rendering takes. The orchestrator takes its
// own CPU baseline and waits until the second tick is due, then reads sample
// i until one interval past tick i's due time. A stalled reporter costs at
// most one interval per iteration, and a healthy one never drifts past its
// deadline.
//
// # Signals
//
// SignalBridge keeps interrupts from killing a run halfway. The first
// Ctrl+C pauses output and asks for confirmation; only an explicit yes
// cancels the run. Reporters run under worker contexts that an interrupt
// alone never cancels.
//
// # Shutdown
//
// When the loop ends, normally or after a confirmed quit, the orchestrator
// closes every read end, cancels the workers and waits for all of them.
package monitor
