// Package renamer executes template-driven batch renames.
//
// The executor walks a library root, derives each file's new name from
// its tags, reserves collision-free destinations, and performs the
// moves on a bounded worker pool. One bad file never aborts a batch:
// per-file failures become skipped or error results and the run carries
// on.
package renamer

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/zenone/crate/internal/fsutil"
	"github.com/zenone/crate/internal/metadata"
	"github.com/zenone/crate/internal/reserve"
	"github.com/zenone/crate/internal/sanitize"
	"github.com/zenone/crate/internal/scan"
	"github.com/zenone/crate/internal/tags"
	"github.com/zenone/crate/internal/template"
)

// DefaultWorkers bounds concurrent move operations when Options does
// not say otherwise.
const DefaultWorkers = 4

// lockFileName is created under the batch root while a non-dry-run
// batch executes.
const lockFileName = ".crate.lock"

// ErrBatchInProgress reports that another batch already holds the lock
// for the requested root.
var ErrBatchInProgress = errors.Base("another rename batch is running on this root")

// ResultStatus classifies the outcome of one file.
type ResultStatus int

const (
	StatusRenamed ResultStatus = iota
	StatusSkipped
	StatusError
)

func (s ResultStatus) String() string {
	switch s {
	case StatusRenamed:
		return "renamed"
	case StatusSkipped:
		return "skipped"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Result records the decision made for a single file. Destination is
// empty when no new name was computed.
type Result struct {
	Source      string
	Destination string
	Status      ResultStatus
	Message     string
}

// Status summarizes a finished batch. On a dry run Renamed counts
// would-be renames. Results holds one entry per processed file in
// discovery order; files never reached after a cancellation have no
// entry.
type Status struct {
	Total         int
	Renamed       int
	Skipped       int
	Errors        int
	Cancelled     bool
	UndoSessionID string
	Results       []Result
}

// Move is one performed rename.
type Move struct {
	Source      string
	Destination string
}

// Moves returns the batch's renames in discovery order. On a dry-run
// status these are the would-be moves.
func (s *Status) Moves() []Move {
	var moves []Move
	for _, res := range s.Results {
		if res.Status == StatusRenamed {
			moves = append(moves, Move{Source: res.Source, Destination: res.Destination})
		}
	}
	return moves
}

// ProgressEvent reports one completed file.
type ProgressEvent struct {
	Done  int // files finished so far, any outcome
	Total int
	File  string // base name of the file just finished
}

// Request describes one batch.
type Request struct {
	Path      string
	Recursive bool
	DryRun    bool
	Template  string

	// SelectedFiles restricts the batch to the listed paths, resolved
	// against the current directory or the batch root.
	SelectedFiles []string

	// OnProgress, when set, fires after every file completes.
	OnProgress func(ProgressEvent)

	// CancelCheck, when set, is polled between file operations; a true
	// return stops the batch at the next safe point.
	CancelCheck func() bool
}

// TagReader supplies the raw tag fields of an audio file.
type TagReader interface {
	ReadRaw(path string) (map[string]string, error)
}

// Options configures an Executor. Zero-value fields use defaults.
type Options struct {
	Scanner       *scan.Scanner
	Tags          TagReader
	Move          func(src, dst string) error
	Workers       int
	MaxStemLength int
	Logger        *zerolog.Logger
}

// Executor runs rename batches.
type Executor struct {
	scanner *scan.Scanner
	tags    TagReader
	move    func(src, dst string) error
	workers int
	maxStem int
	logger  zerolog.Logger
}

// New creates an Executor.
func New(opts Options) *Executor {
	e := &Executor{
		scanner: opts.Scanner,
		tags:    opts.Tags,
		move:    opts.Move,
		workers: opts.Workers,
		maxStem: opts.MaxStemLength,
		logger:  zerolog.Nop(),
	}
	if e.scanner == nil {
		e.scanner = &scan.Scanner{}
	}
	if e.tags == nil {
		e.tags = tags.Reader{}
	}
	if e.move == nil {
		e.move = fsutil.Move
	}
	if e.workers <= 0 {
		e.workers = DefaultWorkers
	}
	if e.maxStem <= 0 {
		e.maxStem = sanitize.DefaultMaxStem
	}
	if opts.Logger != nil {
		e.logger = *opts.Logger
	}
	return e
}

// Run executes one batch and blocks until it finishes or reaches a
// cancellation safe point. Template and root problems return an error
// before any file is touched; everything after that is reported
// per-file in the Status.
func (e *Executor) Run(ctx context.Context, req Request) (*Status, error) {
	tmpl, err := template.Parse(req.Template)
	if err != nil {
		return nil, err
	}

	files, err := e.scanner.Scan(ctx, req.Path, req.Recursive)
	if err != nil {
		return nil, err
	}
	files = restrict(files, req.Path, req.SelectedFiles)

	if !req.DryRun {
		lock := flock.New(filepath.Join(req.Path, lockFileName))
		locked, err := lock.TryLock()
		if err != nil {
			return nil, errors.Errorf("locking %s: %w", req.Path, err)
		}
		if !locked {
			return nil, errors.Errorf("%w: %s", ErrBatchInProgress, req.Path)
		}
		defer func() { _ = lock.Unlock() }()
	}

	e.logger.Debug().
		Str("root", req.Path).
		Int("files", len(files)).
		Str("template", req.Template).
		Bool("dry_run", req.DryRun).
		Msg("batch started")

	r := &run{
		results:    make([]Result, len(files)),
		decided:    make([]bool, len(files)),
		total:      len(files),
		onProgress: req.OnProgress,
	}
	book := reserve.New()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, path := range files {
		if cancelRequested(ctx, req.CancelCheck) {
			r.markCancelled()
			break
		}

		res, submit := e.decide(tmpl, book, path)
		if !submit {
			r.finish(i, res)
			continue
		}
		if req.DryRun {
			r.finish(i, Result{Source: path, Destination: res.Destination, Status: StatusRenamed})
			continue
		}

		i, path, dest := i, path, res.Destination
		g.Go(func() error {
			r.finish(i, e.moveFile(gctx, req.CancelCheck, r, path, dest))
			return nil
		})
	}
	_ = g.Wait()

	status := r.status()
	e.logger.Debug().
		Int("renamed", status.Renamed).
		Int("skipped", status.Skipped).
		Int("errors", status.Errors).
		Bool("cancelled", status.Cancelled).
		Msg("batch finished")
	return status, nil
}

// decide computes the destination for path. submit is true when a move
// step is still required; otherwise res carries the final outcome.
func (e *Executor) decide(tmpl *template.Template, book *reserve.Book, path string) (res Result, submit bool) {
	raw, err := e.tags.ReadRaw(path)
	if err != nil {
		e.logger.Debug().Str("file", path).Err(err).Msg("tag read failed")
		return Result{Source: path, Status: StatusError, Message: "unreadable tags: " + err.Error()}, false
	}

	rec := metadata.Normalize(raw)
	name := sanitize.FileName(tmpl.Expand(rec)+filepath.Ext(path), e.maxStem)
	if name == "" {
		return Result{Source: path, Status: StatusSkipped, Message: "tags expand to an empty name"}, false
	}

	dest := book.Reserve(path, filepath.Dir(path), name)
	if dest == path {
		return Result{Source: path, Destination: dest, Status: StatusSkipped, Message: "already named correctly"}, false
	}
	return Result{Source: path, Destination: dest}, true
}

// moveFile performs one reserved move on a pool worker.
func (e *Executor) moveFile(ctx context.Context, check func() bool, r *run, path, dest string) Result {
	if cancelRequested(ctx, check) {
		r.markCancelled()
		return Result{Source: path, Destination: dest, Status: StatusSkipped, Message: "cancelled before move"}
	}
	// The book probed the disk when the destination was reserved, but
	// something may have appeared since; os.Rename would silently
	// replace it.
	if fsutil.Exists(dest) {
		return Result{Source: path, Destination: dest, Status: StatusError, Message: "destination already occupied"}
	}
	if err := e.move(path, dest); err != nil {
		e.logger.Debug().Str("file", path).Err(err).Msg("move failed")
		return Result{Source: path, Destination: dest, Status: StatusError, Message: moveMessage(err)}
	}
	return Result{Source: path, Destination: dest, Status: StatusRenamed}
}

func moveMessage(err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "file vanished before move"
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	}
	return err.Error()
}

func cancelRequested(ctx context.Context, check func() bool) bool {
	if ctx.Err() != nil {
		return true
	}
	return check != nil && check()
}

// restrict narrows files to the requested subset. Subset entries may be
// absolute, relative to the working directory, or relative to root.
func restrict(files []string, root string, selected []string) []string {
	if len(selected) == 0 {
		return files
	}
	want := make(map[string]bool, len(selected)*2)
	for _, s := range selected {
		if abs, err := filepath.Abs(s); err == nil {
			want[abs] = true
		}
		if !filepath.IsAbs(s) {
			if abs, err := filepath.Abs(filepath.Join(root, s)); err == nil {
				want[abs] = true
			}
		}
	}
	var kept []string
	for _, f := range files {
		if want[f] {
			kept = append(kept, f)
		}
	}
	return kept
}

// run accumulates per-file outcomes while workers finish out of order.
type run struct {
	mu         sync.Mutex
	results    []Result
	decided    []bool
	completed  int
	total      int
	cancelled  bool
	onProgress func(ProgressEvent)
}

// finish records one outcome and reports progress. The callback runs
// under the lock so counts are delivered strictly in completion order.
func (r *run) finish(i int, res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[i] = res
	r.decided[i] = true
	r.completed++
	if r.onProgress != nil {
		r.onProgress(ProgressEvent{
			Done:  r.completed,
			Total: r.total,
			File:  filepath.Base(res.Source),
		})
	}
}

func (r *run) markCancelled() {
	r.mu.Lock()
	r.cancelled = true
	r.mu.Unlock()
}

// status folds the recorded outcomes into a batch summary, keeping
// discovery order and dropping files never reached.
func (r *run) status() *Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &Status{Total: r.total, Cancelled: r.cancelled}
	for i, res := range r.results {
		if !r.decided[i] {
			continue
		}
		s.Results = append(s.Results, res)
		switch res.Status {
		case StatusRenamed:
			s.Renamed++
		case StatusSkipped:
			s.Skipped++
		case StatusError:
			s.Errors++
		}
	}
	return s
}
