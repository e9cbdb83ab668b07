// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sparkify/internal/datasource"
)

// Local is a filesystem path. As a datasource.File it opens the path; as a
// datasource.Source it walks the path as a directory tree.
type Local struct{ path string }

var (
	_ datasource.File   = (*Local)(nil)
	_ datasource.Source = (*Local)(nil)
)

// NewLocal returns a new Local data source bound to the provided filesystem
// path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Name implements datasource.File.
func (l *Local) Name() string { return l.path }

// Root implements datasource.Source.
func (l *Local) Root() string { return l.path }

// Open opens the configured path for reading. A context that is already done
// short-circuits before the filesystem is touched. Filesystem errors are
// wrapped with the path and remain matchable with errors.Is.
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

// Files walks every subdirectory of the root and returns the *.json files in
// lexical path order.
func (l *Local) Files(ctx context.Context) ([]datasource.File, error) {
	var out []datasource.File
	err := filepath.WalkDir(l.path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !IsJSON(p) {
			return nil
		}
		out = append(out, NewLocal(p))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", l.path, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// IsJSON reports whether name has a .json extension.
func IsJSON(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}
