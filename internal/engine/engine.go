// Package engine composes the rename executor, the async operation
// manager, and the undo manager behind the surface the front-ends use.
package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/zenone/crate/internal/operation"
	"github.com/zenone/crate/internal/renamer"
	"github.com/zenone/crate/internal/template"
	"github.com/zenone/crate/internal/undo"
)

// Options configures an Engine. Zero-value fields use defaults.
type Options struct {
	Executor        *renamer.Executor
	DefaultTemplate string
	UndoTTL         time.Duration
	Logger          *zerolog.Logger
}

// Engine is the front door for all rename work.
type Engine struct {
	exec       *renamer.Executor
	ops        *operation.Manager
	undo       *undo.Manager
	defaultTpl string
	logger     zerolog.Logger
}

// New creates an Engine.
func New(opts Options) *Engine {
	e := &Engine{
		exec:       opts.Executor,
		ops:        operation.NewManager(),
		undo:       undo.NewManager(opts.UndoTTL),
		defaultTpl: opts.DefaultTemplate,
		logger:     zerolog.Nop(),
	}
	if e.exec == nil {
		e.exec = renamer.New(renamer.Options{})
	}
	if opts.Logger != nil {
		e.logger = *opts.Logger
	}
	return e
}

// ValidateTemplate runs the template pre-flight check.
func (e *Engine) ValidateTemplate(s string) template.ValidationResult {
	return template.Validate(s)
}

// Preview runs the full decision pipeline without touching any file.
func (e *Engine) Preview(ctx context.Context, req renamer.Request) (*renamer.Status, error) {
	req.DryRun = true
	req.Template = e.templateFor(req)
	return e.exec.Run(ctx, req)
}

// Execute runs a batch synchronously. When files actually moved, an
// undo session is recorded and its id stamped into the status.
func (e *Engine) Execute(ctx context.Context, req renamer.Request) (*renamer.Status, error) {
	req.Template = e.templateFor(req)
	status, err := e.exec.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	e.recordUndo(req, status)
	return status, nil
}

// StartAsync launches a batch in the background and returns its
// operation id immediately. The finished operation's status carries the
// undo session id, exactly as Execute's does.
func (e *Engine) StartAsync(req renamer.Request) string {
	req.Template = e.templateFor(req)
	id := e.ops.Start(req, func(ctx context.Context, r renamer.Request) (*renamer.Status, error) {
		status, err := e.exec.Run(ctx, r)
		if err != nil {
			return nil, err
		}
		e.recordUndo(r, status)
		return status, nil
	})
	e.logger.Debug().Str("operation", id).Str("root", req.Path).Msg("async batch started")
	return id
}

// Poll returns a snapshot of an async operation.
func (e *Engine) Poll(id string) (operation.Operation, bool) {
	return e.ops.Get(id)
}

// CancelOperation requests cooperative cancellation of a running
// operation.
func (e *Engine) CancelOperation(id string) bool {
	ok := e.ops.Cancel(id)
	if ok {
		e.logger.Debug().Str("operation", id).Msg("cancellation requested")
	}
	return ok
}

// ClearOperation removes a terminal operation from the table.
func (e *Engine) ClearOperation(id string) bool {
	return e.ops.Clear(id)
}

// Undo reverses a recorded batch.
func (e *Engine) Undo(sessionID string) (*undo.Result, error) {
	res, err := e.undo.Undo(sessionID)
	if err != nil {
		return nil, err
	}
	e.logger.Debug().
		Str("session", sessionID).
		Int("restored", res.Restored).
		Int("failed", res.Failed).
		Msg("batch undone")
	return res, nil
}

func (e *Engine) templateFor(req renamer.Request) string {
	if req.Template != "" {
		return req.Template
	}
	return e.defaultTpl
}

// recordUndo registers an undo session for batches that moved at least
// one file. Dry runs never record one.
func (e *Engine) recordUndo(req renamer.Request, status *renamer.Status) {
	if req.DryRun || status == nil || status.Renamed == 0 {
		return
	}
	moves := status.Moves()
	if len(moves) == 0 {
		return
	}

	undoMoves := make([]undo.Move, len(moves))
	for i, mv := range moves {
		undoMoves[i] = undo.Move{Source: mv.Source, Destination: mv.Destination}
	}
	session := e.undo.Record(undoMoves)
	status.UndoSessionID = session.ID

	e.logger.Debug().
		Str("session", session.ID).
		Int("moves", len(undoMoves)).
		Time("expires", session.ExpiresAt).
		Msg("undo session recorded")
}
