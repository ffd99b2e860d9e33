// Package task tracks the one in-flight background operation a screen may
// have, so the view can show pending/success/error without juggling flags.
package task

import (
	"context"
	"slices"
	"sync"
)

type State int

const (
	Idle State = iota
	Pending
	Succeeded
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	}
	return "idle"
}

// Ticket identifies one Start call.
type Ticket uint64

// Tracker is safe for concurrent use. The zero value is ready.
type Tracker struct {
	mu     sync.Mutex
	seq    Ticket
	state  State
	label  string
	err    error
	cancel context.CancelFunc
}

// Start cancels whatever is running and begins a new task.
func (t *Tracker) Start(ctx context.Context, label string) (context.Context, Ticket) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	child, cancel := context.WithCancel(ctx)
	t.seq++
	t.cancel = cancel
	t.state = Pending
	t.label = label
	t.err = nil
	return child, t.seq
}

// Finish records the outcome of ticket. It reports false, and changes
// nothing, when a newer task has started since.
func (t *Tracker) Finish(ticket Ticket, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ticket != t.seq || t.state != Pending {
		return false
	}
	t.cancel()
	t.cancel = nil
	t.err = err
	if err != nil {
		t.state = Failed
	} else {
		t.state = Succeeded
	}
	return true
}

// Cancel aborts the running task, if any.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

// CancelLabel aborts the running task only if it was started under one of
// labels. It reports whether it cancelled anything.
func (t *Tracker) CancelLabel(labels ...string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Pending || !slices.Contains(labels, t.label) {
		return false
	}
	t.cancelLocked()
	return true
}

func (t *Tracker) cancelLocked() {
	if t.state != Pending {
		return
	}
	t.cancel()
	t.cancel = nil
	t.state = Cancelled
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Tracker) Label() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.label
}

// Err is the error of the last finished task.
func (t *Tracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Tracker) Busy() bool { return t.State() == Pending }
