// Package lake writes the star schema as partitioned Parquet files, either
// under a local directory or, through a staging directory, to an S3 prefix.
//
// Layout under the output root:
//
//	songs/year=<y>/artist_id=<id>/part-<hash>.parquet
//	artists/part-<hash>.parquet
//	users/part-<hash>.parquet
//	time/year=<y>/month=<m>/part-<hash>.parquet
//	songplays/year=<y>/month=<m>/part-<hash>.parquet
//
// Every table directory is replaced on each run.
package lake

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"

	"sparkify/internal/schema"
	"sparkify/internal/transformer"
)

// parallelism is the parquet-go marshalling goroutine count per file.
const parallelism = 4

// Writer writes Tables under Root.
type Writer struct {
	Root   string
	Logger *zap.Logger
}

// WriteTables writes every table, replacing any previous output.
func (w *Writer) WriteTables(ctx context.Context, t Tables) error {
	log := w.Logger
	if log == nil {
		log = zap.NewNop()
	}

	steps := []struct {
		table string
		write func(dir string) (int, error)
	}{
		{schema.Songs, func(dir string) (int, error) {
			return writePartitioned(dir, t.Songs,
				func(r transformer.SongRow) string {
					return hivePath("year", strconv.Itoa(r.Year), "artist_id", r.ArtistID)
				},
				func(r transformer.SongRow) songRow {
					return songRow{SongID: r.SongID, Title: r.Title, Duration: r.Duration}
				})
		}},
		{schema.Artists, func(dir string) (int, error) {
			return writePartitioned(dir, t.Artists, noPartition[transformer.ArtistRow],
				func(r transformer.ArtistRow) artistRow {
					return artistRow{ArtistID: r.ArtistID, Name: r.Name, Location: r.Location, Latitude: r.Latitude, Longitude: r.Longitude}
				})
		}},
		{schema.Users, func(dir string) (int, error) {
			return writePartitioned(dir, t.Users, noPartition[transformer.UserRow],
				func(r transformer.UserRow) userRow {
					return userRow{UserID: r.UserID, FirstName: r.FirstName, LastName: r.LastName, Gender: r.Gender, Level: r.Level}
				})
		}},
		{schema.Time, func(dir string) (int, error) {
			return writePartitioned(dir, t.Times,
				func(r transformer.TimeRow) string {
					return hivePath("year", strconv.Itoa(r.Year), "month", strconv.Itoa(r.Month))
				},
				func(r transformer.TimeRow) timeRow {
					return timeRow{
						StartTime: millis(r.StartTime),
						Hour:      int32(r.Hour),
						Day:       int32(r.Day),
						Week:      int32(r.Week),
						Weekday:   int32(r.Weekday),
					}
				})
		}},
		{schema.Songplays, func(dir string) (int, error) {
			return writePartitioned(dir, t.Songplays,
				func(r transformer.SongplayRow) string {
					st := r.StartTime.UTC()
					return hivePath("year", strconv.Itoa(st.Year()), "month", strconv.Itoa(int(st.Month())))
				},
				func(r transformer.SongplayRow) songplayRow {
					return songplayRow{
						SongplayID: r.SongplayID,
						StartTime:  millis(r.StartTime),
						UserID:     r.UserID,
						Level:      r.Level,
						SongID:     r.SongID,
						ArtistID:   r.ArtistID,
						SessionID:  r.SessionID,
						Location:   r.Location,
						UserAgent:  r.UserAgent,
					}
				})
		}},
	}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		dir := filepath.Join(w.Root, s.table)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("lake: clear %s: %w", dir, err)
		}
		n, err := s.write(dir)
		if err != nil {
			return fmt.Errorf("lake: write %s: %w", s.table, err)
		}
		log.Info("table written", zap.String("table", s.table), zap.Int("rows", n), zap.String("dir", dir))
	}
	return nil
}

func noPartition[T any](T) string { return "" }

// hivePath renders key=value directory levels. Values are path-escaped so
// identifiers cannot introduce separators.
func hivePath(kv ...string) string {
	parts := make([]string, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		parts = append(parts, kv[i]+"="+url.PathEscape(kv[i+1]))
	}
	return filepath.Join(parts...)
}

// partFileName is stable for a (table dir, partition) pair so reruns
// overwrite rather than accumulate.
func partFileName(dir, partition string) string {
	return fmt.Sprintf("part-%016x.parquet", xxh3.Hash([]byte(filepath.Base(dir)+"/"+filepath.ToSlash(partition))))
}

// writePartitioned groups rows by partition (keeping first-appearance
// order inside each group) and writes one part file per partition. An
// empty table still gets its directory.
func writePartitioned[R, P any](dir string, rows []R, partition func(R) string, conv func(R) P) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	groups := map[string][]P{}
	for _, r := range rows {
		k := partition(r)
		groups[k] = append(groups[k], conv(r))
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		pdir := filepath.Join(dir, k)
		if err := os.MkdirAll(pdir, 0o755); err != nil {
			return 0, err
		}
		if err := writeParquet(filepath.Join(pdir, partFileName(dir, k)), groups[k]); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func writeParquet[P any](path string, rows []P) (err error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := fw.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	pw, err := writer.NewParquetWriter(fw, new(P), parallelism)
	if err != nil {
		return fmt.Errorf("parquet writer %s: %w", path, err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for i := range rows {
		if err := pw.Write(rows[i]); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finish %s: %w", path, err)
	}
	return nil
}
