package monitor

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrPipeClosed is returned by Send once the reading side has gone away.
// It marks a normal end of stream, not a failure.
var ErrPipeClosed = errors.New("pipe closed by reader")

// Pipe is a one-way, single-writer/single-reader message stream with room
// for exactly one message. A reporter owns the write end and the
// orchestrator owns the read end.
type Pipe struct {
	category Category
	messages chan Message
	readDone chan struct{}

	closeWriteOnce sync.Once
	closeReadOnce  sync.Once
}

// NewPipe creates a pipe for one report category.
func NewPipe(c Category) *Pipe {
	return &Pipe{
		category: c,
		messages: make(chan Message, 1),
		readDone: make(chan struct{}),
	}
}

// Category returns the report category this pipe carries.
func (p *Pipe) Category() Category {
	return p.category
}

// Send transfers one whole message. It blocks while the previous message is
// still unread, and fails when the reader has closed its end or ctx is done.
// Send must not be called after CloseWrite.
func (p *Pipe) Send(ctx context.Context, msg Message) error {
	select {
	case <-p.readDone:
		return ErrPipeClosed
	default:
	}

	select {
	case p.messages <- msg:
		return nil
	case <-p.readDone:
		return ErrPipeClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive waits up to timeout for the next message. The second result is
// false when nothing usable arrived: timeout, an empty message, the writer
// having finished, or ctx being done. None of these are errors; the caller
// simply has no data for this tick.
func (p *Pipe) Receive(ctx context.Context, timeout time.Duration) (Message, bool) {
	return p.ReceiveBy(ctx, time.Now().Add(timeout))
}

// ReceiveBy is Receive with an absolute deadline. A message already waiting
// is always returned, even when the deadline has passed.
func (p *Pipe) ReceiveBy(ctx context.Context, deadline time.Time) (Message, bool) {
	select {
	case msg, ok := <-p.messages:
		return usable(msg, ok)
	default:
	}

	wait := time.Until(deadline)
	if wait <= 0 {
		return Message{}, false
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case msg, ok := <-p.messages:
		return usable(msg, ok)
	case <-timer.C:
		return Message{}, false
	case <-p.readDone:
		return Message{}, false
	case <-ctx.Done():
		return Message{}, false
	}
}

func usable(msg Message, ok bool) (Message, bool) {
	if !ok || msg.Empty() {
		return Message{}, false
	}
	return msg, true
}

// CloseWrite marks the end of the stream. Safe to call more than once.
func (p *Pipe) CloseWrite() {
	p.closeWriteOnce.Do(func() {
		close(p.messages)
	})
}

// CloseRead releases the read end. Pending and future Sends fail with
// ErrPipeClosed so a writer is never left blocked.
func (p *Pipe) CloseRead() {
	p.closeReadOnce.Do(func() {
		close(p.readDone)
	})
}
