// Package undo provides time-boxed, one-shot reversal of completed
// rename batches.
package undo

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"gitlab.com/tozd/go/errors"

	"github.com/zenone/crate/internal/fsutil"
)

// DefaultTTL bounds how long a recorded batch stays reversible.
const DefaultTTL = 15 * time.Minute

var (
	// ErrNotFound reports an unknown or already-consumed session.
	ErrNotFound = errors.Base("undo session not found")

	// ErrExpired reports a session past its TTL; no files are touched.
	ErrExpired = errors.Base("undo session expired")
)

// Move records one performed rename, oldest path first.
type Move struct {
	Source      string
	Destination string
}

// Session is a recorded batch eligible for reversal.
type Session struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time

	moves    []Move
	consumed bool
}

// FileResult reports one file of an undo attempt. Err is empty when
// the file was restored.
type FileResult struct {
	Source      string
	Destination string
	Err         string
}

// Result summarizes one undo attempt.
type Result struct {
	SessionID string
	Total     int
	Restored  int
	Failed    int
	Results   []FileResult
}

// Manager owns undo sessions. Sessions live in memory only and expire
// ttl after they are recorded; expiry is evaluated when Undo is called,
// not by a background timer.
type Manager struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
	move     func(src, dst string) error
	now      func() time.Time
}

// NewManager creates a manager whose sessions expire ttl after
// recording. A non-positive ttl falls back to DefaultTTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		ttl:      ttl,
		sessions: make(map[string]*Session),
		move:     fsutil.Move,
		now:      time.Now,
	}
}

// Record registers the moves of a completed batch and returns the new
// session. Sessions already expired or consumed are pruned on the way.
func (m *Manager) Record(moves []Move) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked()

	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
		moves:     append([]Move(nil), moves...),
	}
	m.sessions[s.ID] = s
	return *s
}

// Undo moves every file of the session back to its original path, in
// reverse execution order. A session is consumed by the attempt whether
// or not every file restores cleanly; per-file failures are reported in
// the result, not as an error.
func (m *Manager) Undo(id string) (*Result, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok || s.consumed {
		m.mu.Unlock()
		return nil, errors.Errorf("%w: %s", ErrNotFound, id)
	}
	if m.now().After(s.ExpiresAt) {
		m.mu.Unlock()
		return nil, errors.Errorf("%w: %s", ErrExpired, id)
	}
	s.consumed = true
	moves := s.moves
	m.mu.Unlock()

	res := &Result{SessionID: id, Total: len(moves)}
	for i := len(moves) - 1; i >= 0; i-- {
		mv := moves[i]
		fr := FileResult{Source: mv.Source, Destination: mv.Destination}
		if err := m.move(mv.Destination, mv.Source); err != nil {
			fr.Err = err.Error()
			res.Failed++
		} else {
			res.Restored++
		}
		res.Results = append(res.Results, fr)
	}
	return res, nil
}

// pruneLocked drops sessions that can never be undone again. Callers
// hold the lock.
func (m *Manager) pruneLocked() {
	now := m.now()
	for id, s := range m.sessions {
		if s.consumed || now.After(s.ExpiresAt) {
			delete(m.sessions, id)
		}
	}
}
