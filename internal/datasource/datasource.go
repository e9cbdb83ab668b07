// Package datasource defines how input files are enumerated and opened,
// independent of where they live (local disk or S3).
package datasource

import (
	"context"
	"io"
)

// File is one input file.
type File interface {
	// Name identifies the file in logs and parse errors (a path or s3:// URL).
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Source enumerates the JSON files under a root.
type Source interface {
	// Root is the location the files were listed from.
	Root() string
	// Files returns every *.json file under Root in a deterministic order.
	Files(ctx context.Context) ([]File, error)
}
