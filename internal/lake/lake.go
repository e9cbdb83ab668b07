package lake

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"sparkify/internal/datasource"
	"sparkify/internal/datasource/s3"
	"sparkify/internal/metrics"
	"sparkify/internal/parser"
	"sparkify/internal/pipeline"
	"sparkify/internal/records"
)

// Options configure Run.
type Options struct {
	// Output is a local directory or an s3:// URL.
	Output  string
	S3      s3.Config
	Workers int
	Out     io.Writer
	Logger  *zap.Logger
	Job     string
	// Uploader overrides the S3 uploader built from S3.
	Uploader *Uploader
}

// Run reads both sources, builds the tables in memory and writes them to
// opts.Output. Files that fail to parse are skipped and reported in the
// Result.
func Run(ctx context.Context, songSrc, logSrc datasource.Source, p parser.Parser, opts Options) (pipeline.Result, error) {
	if opts.Output == "" {
		return pipeline.Result{}, fmt.Errorf("lake: output location is required")
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Job == "" {
		opts.Job = "lake"
	}
	popts := pipeline.Options{Out: opts.Out, Logger: opts.Logger, Job: opts.Job, Workers: opts.Workers}

	var res pipeline.Result
	read := func(src datasource.Source, kind records.Kind) ([]records.Record, error) {
		decoded, r, err := pipeline.ReadAll(ctx, src, kind, p, popts)
		res.Merge(r)
		if err != nil {
			return nil, err
		}
		if r.Found > 0 {
			fmt.Fprintf(opts.Out, "%d/%d files processed.\n", r.Processed, r.Found)
		}
		recs := pipeline.Flatten(decoded)
		metrics.RecordRow(opts.Job, string(kind), int64(len(recs)))
		return recs, nil
	}

	songRecs, err := read(songSrc, records.KindSong)
	if err != nil {
		return res, err
	}
	logRecs, err := read(logSrc, records.KindLog)
	if err != nil {
		return res, err
	}
	songs, _ := records.Split(songRecs)
	_, events := records.Split(logRecs)

	start := time.Now()
	tables, err := Build(ctx, songs, events)
	metrics.RecordStep(opts.Job, "build_tables", err, time.Since(start))
	if err != nil {
		return res, err
	}

	start = time.Now()
	err = write(ctx, tables, opts)
	metrics.RecordStep(opts.Job, "write_tables", err, time.Since(start))
	return res, err
}

func write(ctx context.Context, tables Tables, opts Options) error {
	if !s3.IsURL(opts.Output) {
		w := &Writer{Root: opts.Output, Logger: opts.Logger}
		return w.WriteTables(ctx, tables)
	}

	tmp, err := os.MkdirTemp("", "sparkify-lake-*")
	if err != nil {
		return fmt.Errorf("lake: staging dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	w := &Writer{Root: tmp, Logger: opts.Logger}
	if err := w.WriteTables(ctx, tables); err != nil {
		return err
	}

	up := opts.Uploader
	if up == nil {
		if up, err = NewUploader(opts.S3, opts.Logger); err != nil {
			return err
		}
	}
	return up.Sync(ctx, tmp, opts.Output)
}
