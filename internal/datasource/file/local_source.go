// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Local reads one file from the local disk.
type Local struct{ path string }

// NewLocal returns a Local bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the file. A context that is already done short-circuits without
// touching the filesystem. Filesystem errors keep their identity, so
// errors.Is(err, fs.ErrNotExist) works on the result.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

// Exists reports whether the path names a regular file. Errors other than
// "does not exist" are returned so callers can tell a missing file from an
// unreadable directory.
func (l *Local) Exists() (bool, error) {
	st, err := os.Stat(l.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat %s: %w", l.path, err)
	}
	return st.Mode().IsRegular(), nil
}
