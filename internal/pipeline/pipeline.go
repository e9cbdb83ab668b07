// Package pipeline drives files from a datasource through a parser into a
// load step, reporting progress on the console the way the batch jobs
// always have:
//
//	<n> files found in <root>
//	1/<n> files processed.
//
// Files that fail to parse are skipped and collected; every other error is
// fatal for the run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"sparkify/internal/datasource"
	"sparkify/internal/metrics"
	"sparkify/internal/parser"
	jsonparser "sparkify/internal/parser/json"
	"sparkify/internal/records"
)

// LoadFunc persists the records of one file. It is called once per file,
// in listing order, and must return only after the file is committed.
type LoadFunc func(ctx context.Context, name string, recs []records.Record) error

// Options tune ProcessFiles and ReadAll.
type Options struct {
	// Out receives the progress lines. Nil means os.Stdout.
	Out io.Writer
	// Logger receives structured per-file logs. Nil disables them.
	Logger *zap.Logger
	// Job labels metrics.
	Job string
	// Workers bounds parallel decoding in ReadAll. Values < 1 mean 1.
	Workers int
}

func (o Options) withDefaults() Options {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Job == "" {
		o.Job = "sparkify"
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o
}

// Result summarises a pass over one source.
type Result struct {
	Found     int
	Processed int
	// Skipped holds one *json.ParseError per file that failed to parse.
	Skipped *multierror.Error
}

// Err returns the aggregated parse failures, or nil.
func (r Result) Err() error { return r.Skipped.ErrorOrNil() }

// Merge folds o into r.
func (r *Result) Merge(o Result) {
	r.Found += o.Found
	r.Processed += o.Processed
	if o.Skipped != nil {
		r.Skipped = multierror.Append(r.Skipped, o.Skipped.Errors...)
	}
}

// ProcessFiles lists src, then for each file in order decodes it with p and
// hands the records to load. A progress line is printed after each file
// whose load returned nil.
func ProcessFiles(ctx context.Context, src datasource.Source, kind records.Kind, p parser.Parser, load LoadFunc, opts Options) (Result, error) {
	opts = opts.withDefaults()
	log := opts.Logger.With(zap.String("kind", string(kind)))

	files, err := src.Files(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list %s: %w", src.Root(), err)
	}
	res := Result{Found: len(files)}
	fmt.Fprintf(opts.Out, "%d files found in %s\n", len(files), src.Root())

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		start := time.Now()

		recs, err := decode(ctx, f, kind, p)
		if err != nil {
			if jsonparser.IsParseError(err) {
				log.Warn("skipping file", zap.String("file", f.Name()), zap.Error(err))
				res.Skipped = multierror.Append(res.Skipped, err)
				metrics.RecordFile(opts.Job, string(kind), metrics.FileSkipped)
				continue
			}
			metrics.RecordFile(opts.Job, string(kind), metrics.FileFailed)
			return res, err
		}

		err = load(ctx, f.Name(), recs)
		metrics.RecordStep(opts.Job, "load_"+string(kind)+"_file", err, time.Since(start))
		if err != nil {
			metrics.RecordFile(opts.Job, string(kind), metrics.FileFailed)
			return res, fmt.Errorf("load %s: %w", f.Name(), err)
		}
		metrics.RecordFile(opts.Job, string(kind), metrics.FileLoaded)
		metrics.RecordRow(opts.Job, string(kind), int64(len(recs)))

		res.Processed++
		log.Debug("file loaded",
			zap.String("file", f.Name()),
			zap.Int("records", len(recs)),
			zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)),
		)
		fmt.Fprintf(opts.Out, "%d/%d files processed.\n", i+1, len(files))
	}
	return res, nil
}

func decode(ctx context.Context, f datasource.File, kind records.Kind, p parser.Parser) ([]records.Record, error) {
	rc, err := f.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return p.Parse(kind, f.Name(), rc)
}
