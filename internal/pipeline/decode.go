package pipeline

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sparkify/internal/datasource"
	"sparkify/internal/metrics"
	"sparkify/internal/parser"
	jsonparser "sparkify/internal/parser/json"
	"sparkify/internal/records"
)

// Decoded is the parsed content of one file.
type Decoded struct {
	Name    string
	Records []records.Record
}

// DecodeFiles parses files on at most workers goroutines. Results keep the
// order of files; files that fail to parse are left out and returned in the
// multierror. Any other failure cancels the remaining work and is returned
// as the error.
func DecodeFiles(ctx context.Context, files []datasource.File, kind records.Kind, p parser.Parser, workers int) ([]Decoded, *multierror.Error, error) {
	if workers < 1 {
		workers = 1
	}
	slots := make([]*Decoded, len(files))
	parseErrs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			recs, err := decode(gctx, f, kind, p)
			if err != nil {
				if jsonparser.IsParseError(err) {
					parseErrs[i] = err
					return nil
				}
				return fmt.Errorf("decode %s: %w", f.Name(), err)
			}
			slots[i] = &Decoded{Name: f.Name(), Records: recs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		out     = make([]Decoded, 0, len(files))
		skipped *multierror.Error
	)
	for i := range files {
		if parseErrs[i] != nil {
			skipped = multierror.Append(skipped, parseErrs[i])
			continue
		}
		out = append(out, *slots[i])
	}
	return out, skipped, nil
}

// ReadAll lists src, prints the "files found" line and decodes every file
// with DecodeFiles. It is the extract step of the set-based paths.
func ReadAll(ctx context.Context, src datasource.Source, kind records.Kind, p parser.Parser, opts Options) ([]Decoded, Result, error) {
	opts = opts.withDefaults()

	files, err := src.Files(ctx)
	if err != nil {
		return nil, Result{}, fmt.Errorf("list %s: %w", src.Root(), err)
	}
	fmt.Fprintf(opts.Out, "%d files found in %s\n", len(files), src.Root())

	decoded, skipped, err := DecodeFiles(ctx, files, kind, p, opts.Workers)
	if err != nil {
		return nil, Result{Found: len(files)}, err
	}
	if skipped != nil {
		for _, e := range skipped.Errors {
			opts.Logger.Warn("skipping file", zap.String("kind", string(kind)), zap.Error(e))
			metrics.RecordFile(opts.Job, string(kind), metrics.FileSkipped)
		}
	}
	return decoded, Result{Found: len(files), Processed: len(decoded), Skipped: skipped}, nil
}

// Flatten concatenates the records of every decoded file in order.
func Flatten(ds []Decoded) []records.Record {
	n := 0
	for _, d := range ds {
		n += len(d.Records)
	}
	out := make([]records.Record, 0, n)
	for _, d := range ds {
		out = append(out, d.Records...)
	}
	return out
}
