// Package operation tracks asynchronous rename batches.
//
// Callers start a batch, get back an id immediately, and poll for
// snapshots while the batch runs on its own goroutine. Cancellation is
// cooperative: Cancel flips a flag the running batch polls at its safe
// points.
package operation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zenone/crate/internal/renamer"
)

// State names an operation's lifecycle position. Running is the only
// non-terminal state; terminal operations never transition again.
type State string

const (
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
	StateError     State = "error"
)

// Operation is a point-in-time snapshot of one async batch.
type Operation struct {
	ID          string
	State       State
	Progress    int
	Total       int
	CurrentFile string
	StartedAt   time.Time
	EndedAt     time.Time

	// Status and Err are set once the operation is terminal.
	Status *renamer.Status
	Err    error
}

// Runner executes one batch. The manager instruments the request's
// progress and cancellation hooks before invoking it.
type Runner func(ctx context.Context, req renamer.Request) (*renamer.Status, error)

type entry struct {
	op     Operation
	cancel bool
}

// Manager owns the operation table. Operations persist until Clear is
// called for them; bounding table growth is the caller's concern.
type Manager struct {
	mu  sync.RWMutex
	ops map[string]*entry
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{ops: make(map[string]*entry)}
}

// Start registers a running operation, launches run on its own
// goroutine, and returns the operation id without waiting.
func (m *Manager) Start(req renamer.Request, run Runner) string {
	id := uuid.NewString()

	m.mu.Lock()
	m.ops[id] = &entry{op: Operation{
		ID:        id,
		State:     StateRunning,
		StartedAt: time.Now(),
	}}
	m.mu.Unlock()

	go func() {
		status, err := run(context.Background(), m.instrument(id, req))
		m.finish(id, status, err)
	}()
	return id
}

// Get returns a snapshot of the operation.
func (m *Manager) Get(id string) (Operation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.ops[id]
	if !ok {
		return Operation{}, false
	}
	return e.op, true
}

// Cancel requests cooperative cancellation. It reports false when the
// operation is unknown or already terminal, and never waits for the
// batch to actually stop.
func (m *Manager) Cancel(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.ops[id]
	if !ok || e.op.State != StateRunning {
		return false
	}
	e.cancel = true
	return true
}

// Clear removes a terminal operation from the table. Running
// operations cannot be cleared.
func (m *Manager) Clear(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.ops[id]
	if !ok || e.op.State == StateRunning {
		return false
	}
	delete(m.ops, id)
	return true
}

// instrument chains the manager's bookkeeping into the request's
// progress and cancellation hooks, keeping any hooks the caller set.
func (m *Manager) instrument(id string, req renamer.Request) renamer.Request {
	callerProgress := req.OnProgress
	req.OnProgress = func(ev renamer.ProgressEvent) {
		m.publish(id, ev)
		if callerProgress != nil {
			callerProgress(ev)
		}
	}

	callerCancel := req.CancelCheck
	req.CancelCheck = func() bool {
		if m.cancelRequested(id) {
			return true
		}
		return callerCancel != nil && callerCancel()
	}
	return req
}

// publish folds a progress event into the snapshot. The table lock is
// held only for the update, and counts never move backwards.
func (m *Manager) publish(id string, ev renamer.ProgressEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.ops[id]
	if !ok || e.op.State != StateRunning {
		return
	}
	e.op.Total = ev.Total
	if ev.Done > e.op.Progress {
		e.op.Progress = ev.Done
		e.op.CurrentFile = ev.File
	}
}

func (m *Manager) cancelRequested(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.ops[id]
	return ok && e.cancel
}

// finish moves the operation to its terminal state.
func (m *Manager) finish(id string, status *renamer.Status, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.ops[id]
	if !ok {
		return
	}

	e.op.EndedAt = time.Now()
	e.op.Status = status
	switch {
	case err != nil:
		e.op.State = StateError
		e.op.Err = err
	case status != nil && status.Cancelled:
		e.op.State = StateCancelled
	default:
		e.op.State = StateCompleted
	}
}
