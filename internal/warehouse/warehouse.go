// Package warehouse implements the bulk path: every input file is decoded,
// bulk-copied into the staging tables, and the star schema is then filled by
// set-based INSERT ... SELECT statements run inside Postgres.
package warehouse

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"sparkify/internal/datasource"
	"sparkify/internal/metrics"
	"sparkify/internal/parser"
	"sparkify/internal/pipeline"
	"sparkify/internal/records"
	"sparkify/internal/schema"
	"sparkify/internal/storage"
)

// DefaultBatchSize is the number of staging rows per CopyFrom call.
const DefaultBatchSize = 5000

// Options configure a Warehouse.
type Options struct {
	BatchSize int
	// Workers bounds parallel file decoding.
	Workers int
	Out     io.Writer
	Logger  *zap.Logger
	Job     string
}

// Warehouse runs the staging load and transform against one repository.
type Warehouse struct {
	repo storage.Repository
	opts Options
	log  *zap.Logger
}

// New returns a Warehouse over repo. The transform statements are written
// for Postgres, so any other dialect is rejected.
func New(repo storage.Repository, opts Options) (*Warehouse, error) {
	if name := repo.Dialect().Name(); name != "postgres" {
		return nil, fmt.Errorf("warehouse: storage kind %q is not supported, use postgres", name)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Job == "" {
		opts.Job = "warehouse"
	}
	return &Warehouse{repo: repo, opts: opts, log: opts.Logger}, nil
}

// Run stages songs from songSrc and events from logSrc, then runs the
// transform. Files that fail to parse are skipped and reported in the
// returned Result; the transform still runs over everything else.
func (w *Warehouse) Run(ctx context.Context, songSrc, logSrc datasource.Source, p parser.Parser) (pipeline.Result, error) {
	var res pipeline.Result

	if err := w.step(ctx, "truncate_staging", w.Truncate); err != nil {
		return res, err
	}

	songs, r, err := w.read(ctx, songSrc, records.KindSong, p)
	res.Merge(r)
	if err != nil {
		return res, err
	}
	s, _ := records.Split(songs)
	if err := w.step(ctx, "stage_songs", func(ctx context.Context) error {
		_, err := w.StageSongs(ctx, s)
		return err
	}); err != nil {
		return res, err
	}
	w.progress(r)

	events, r, err := w.read(ctx, logSrc, records.KindLog, p)
	res.Merge(r)
	if err != nil {
		return res, err
	}
	_, e := records.Split(events)
	if err := w.step(ctx, "stage_events", func(ctx context.Context) error {
		_, err := w.StageEvents(ctx, e)
		return err
	}); err != nil {
		return res, err
	}
	w.progress(r)

	return res, w.Transform(ctx)
}

func (w *Warehouse) read(ctx context.Context, src datasource.Source, kind records.Kind, p parser.Parser) ([]records.Record, pipeline.Result, error) {
	decoded, res, err := pipeline.ReadAll(ctx, src, kind, p, pipeline.Options{
		Out:     w.opts.Out,
		Logger:  w.log,
		Job:     w.opts.Job,
		Workers: w.opts.Workers,
	})
	if err != nil {
		return nil, res, err
	}
	return pipeline.Flatten(decoded), res, nil
}

func (w *Warehouse) progress(r pipeline.Result) {
	if r.Found == 0 {
		return
	}
	fmt.Fprintf(w.opts.Out, "%d/%d files processed.\n", r.Processed, r.Found)
}

// Truncate empties both staging tables.
func (w *Warehouse) Truncate(ctx context.Context) error {
	if err := w.repo.Exec(ctx, truncateStaging); err != nil {
		return fmt.Errorf("truncate staging: %w", err)
	}
	return nil
}

// StageSongs bulk-copies songs into staging_songs. song_seq numbers the
// rows in input order starting at 1.
func (w *Warehouse) StageSongs(ctx context.Context, songs []records.Song) (int64, error) {
	rows := make([][]any, len(songs))
	for i, s := range songs {
		rows[i] = []any{
			int64(i + 1),
			int64(s.NumSongs),
			s.ArtistID,
			storage.Value(s.ArtistLatitude),
			storage.Value(s.ArtistLongitude),
			s.ArtistLocation,
			s.ArtistName,
			s.SongID,
			s.Title,
			s.Duration,
			int64(s.Year),
		}
	}
	return w.stage(ctx, schema.StagingSongs, rows)
}

// StageEvents bulk-copies every event (not only NextSong) into
// staging_events. event_seq numbers the rows in input order starting at 1.
func (w *Warehouse) StageEvents(ctx context.Context, events []records.Event) (int64, error) {
	rows := make([][]any, len(events))
	for i, e := range events {
		rows[i] = []any{
			int64(i + 1),
			e.Artist,
			e.Auth,
			e.FirstName,
			e.Gender,
			int64(e.ItemInSession),
			e.LastName,
			storage.Value(e.Length),
			e.Level,
			e.Location,
			e.Method,
			e.Page,
			storage.Value(e.Registration),
			e.SessionID,
			e.Song,
			int64(e.Status),
			e.TS,
			e.UserAgent,
			storage.Value(e.UserID),
		}
	}
	return w.stage(ctx, schema.StagingEvents, rows)
}

func (w *Warehouse) stage(ctx context.Context, table string, rows [][]any) (int64, error) {
	t, _ := schema.Lookup(table)
	copyFn := storage.CopyInto(w.repo, table)
	batches := int64(0)
	counted := func(ctx context.Context, cols []string, rows [][]any) (int64, error) {
		batches++
		return copyFn(ctx, cols, rows)
	}
	n, err := storage.LoadRows(ctx, t.ColumnNames(false), rows, w.opts.BatchSize, counted, w.log.With(zap.String("table", table)))
	metrics.RecordBatches(w.opts.Job, batches)
	if err != nil {
		return n, fmt.Errorf("stage %s: %w", table, err)
	}
	metrics.RecordRow(w.opts.Job, table, n)
	w.log.Info("staged", zap.String("table", table), zap.Int64("rows", n))
	return n, nil
}

// Transform runs Queries in order. Each statement is its own implicit
// transaction.
func (w *Warehouse) Transform(ctx context.Context) error {
	for _, q := range Queries() {
		err := w.step(ctx, "insert_"+q.Table, func(ctx context.Context) error {
			return w.repo.Exec(ctx, q.SQL)
		})
		if err != nil {
			return fmt.Errorf("insert %s: %w", q.Table, err)
		}
		w.log.Info("table loaded", zap.String("table", q.Table))
	}
	return nil
}

func (w *Warehouse) step(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	metrics.RecordStep(w.opts.Job, name, err, time.Since(start))
	return err
}
