// Package reserve tracks destination filenames claimed during a rename
// batch so that no two files can be assigned the same target path.
package reserve

import (
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/zenone/crate/internal/fsutil"
)

// Book records destination paths handed out during a single batch. A
// path stays claimed for the life of the book whether or not the rename
// that wanted it has happened on disk yet, which keeps concurrently
// executing renames from racing each other to the same name.
type Book struct {
	mu     sync.Mutex
	owners map[string]string // destination path -> source path that claimed it
	exists func(string) bool
}

// New returns an empty book backed by the real filesystem.
func New() *Book {
	return &Book{
		owners: make(map[string]string),
		exists: fsutil.Exists,
	}
}

// Reserve claims a destination for source inside dir. name is the
// desired filename; when it is taken, numbered variants (name_2,
// name_3, ...) are tried in order until one is free. The returned path
// is unique for the life of the book. The path source itself already
// lives at counts as free, so an already-correct file keeps its name.
func (b *Book) Reserve(source, dir, name string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(dir, name)
	for n := 2; !b.free(source, candidate); n++ {
		candidate = filepath.Join(dir, stem+"_"+strconv.Itoa(n)+ext)
	}
	b.owners[candidate] = source
	return candidate
}

// free reports whether dest can be handed to source: nobody in this
// batch holds it, and nothing sits on disk at that path unless it is
// source itself.
func (b *Book) free(source, dest string) bool {
	if owner, claimed := b.owners[dest]; claimed {
		return owner == source
	}
	if dest == source {
		return true
	}
	return !b.exists(dest)
}
