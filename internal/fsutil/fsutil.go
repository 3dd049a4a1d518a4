// Package fsutil provides the file system primitives the rename engine
// builds on.
package fsutil

import (
	"os"
	"syscall"

	"gitlab.com/tozd/go/errors"
)

// Move renames src to dst. A move never falls back to copy+delete:
// crossing a filesystem boundary (EXDEV) is surfaced as a clean error
// rather than risking a half-copied file.
func Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, syscall.EXDEV) {
		return errors.Errorf("moving %s across filesystems is not supported: %w", src, err)
	}
	return errors.Errorf("moving %s: %w", src, err)
}

// Exists reports whether anything lives at path. Symlinks count even
// when their target is gone.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// EnsureDir creates path and any missing parents with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
