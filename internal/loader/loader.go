// Package loader is the row-oriented load path: every source file is written
// to the star schema inside its own transaction, committed before the next
// file starts.
//
// The schema must already exist (see storage.RecreateTables). Song files
// fill songs and artists; log files fill time, users and songplays, with
// songplays resolved against the songs and artists already loaded.
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sparkify/internal/records"
	"sparkify/internal/schema"
	"sparkify/internal/storage"
	"sparkify/internal/transformer"
)

// Stats counts the rows written for one file.
type Stats struct {
	Songs        int64
	Artists      int64
	Times        int64
	Users        int64
	UsersUpdated int64
	Songplays    int64
	Unresolved   int64
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Songs += o.Songs
	s.Artists += o.Artists
	s.Times += o.Times
	s.Users += o.Users
	s.UsersUpdated += o.UsersUpdated
	s.Songplays += o.Songplays
	s.Unresolved += o.Unresolved
}

// Rows is the total number of rows inserted or updated.
func (s Stats) Rows() int64 {
	return s.Songs + s.Artists + s.Times + s.Users + s.UsersUpdated + s.Songplays
}

// Loader writes decoded files into a Repository. It is not safe for
// concurrent use: the row path is sequential by contract.
type Loader struct {
	repo   storage.Repository
	logger *zap.Logger
	sql    statements

	// levelAt is the start time of the play whose level is stored for each
	// user, over every file committed so far.
	levelAt map[int64]time.Time
}

type statements struct {
	insertSong, insertArtist, insertTime, insertUser, insertSongplay string
	countArtist, countTime, countUser                                string
	updateLevel, resolve                                             string
}

// Column orders used by the INSERT statements.
var (
	songCols     = []string{"song_id", "title", "artist_id", "year", "duration"}
	artistCols   = []string{"artist_id", "name", "location", "latitude", "longitude"}
	timeCols     = []string{"start_time", "hour", "day", "week", "month", "year", "weekday"}
	userCols     = []string{"user_id", "first_name", "last_name", "gender", "level"}
	songplayCols = []string{"start_time", "user_id", "level", "song_id", "artist_id", "session_id", "location", "user_agent"}
)

func buildStatements(d storage.Dialect) statements {
	q := d.QuoteIdent
	return statements{
		insertSong:     storage.InsertSQL(d, schema.Songs, songCols),
		insertArtist:   storage.InsertSQL(d, schema.Artists, artistCols),
		insertTime:     storage.InsertSQL(d, schema.Time, timeCols),
		insertUser:     storage.InsertSQL(d, schema.Users, userCols),
		insertSongplay: storage.InsertSQL(d, schema.Songplays, songplayCols),
		countArtist:    storage.CountWhereSQL(d, schema.Artists, "artist_id"),
		countTime:      storage.CountWhereSQL(d, schema.Time, "start_time"),
		countUser:      storage.CountWhereSQL(d, schema.Users, "user_id"),
		updateLevel: fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s = %s",
			q(schema.Users), q("level"), d.Placeholder(1), q("user_id"), d.Placeholder(2)),
		resolve: fmt.Sprintf(
			"SELECT COUNT(DISTINCT s.%[1]s), MIN(s.%[1]s), MIN(s.%[2]s) FROM %[3]s s JOIN %[4]s a ON s.%[2]s = a.%[2]s "+
				"WHERE s.%[5]s = %[7]s AND a.%[6]s = %[8]s AND s.%[9]s = %[10]s",
			q("song_id"), q("artist_id"), q(schema.Songs), q(schema.Artists),
			q("title"), q("name"), d.Placeholder(1), d.Placeholder(2), q("duration"), d.Placeholder(3),
		),
	}
}

// New returns a Loader over repo. A nil logger disables logging.
func New(repo storage.Repository, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		repo:    repo,
		logger:  logger,
		sql:     buildStatements(repo.Dialect()),
		levelAt: make(map[int64]time.Time),
	}
}

// Load dispatches records of the given kind to LoadSongFile or LoadLogFile.
func (l *Loader) Load(ctx context.Context, kind records.Kind, recs []records.Record) (Stats, error) {
	songs, events := records.Split(recs)
	switch kind {
	case records.KindSong:
		return l.LoadSongFile(ctx, songs)
	case records.KindLog:
		return l.LoadLogFile(ctx, events)
	default:
		return Stats{}, fmt.Errorf("loader: unsupported record kind %q", kind)
	}
}

// LoadSongFile inserts the songs and (absent) artists of one song file in a
// single transaction.
func (l *Loader) LoadSongFile(ctx context.Context, songs []records.Song) (Stats, error) {
	var st Stats
	err := l.inTx(ctx, func(tx storage.Tx) error {
		for _, s := range transformer.BuildSongs(songs) {
			if err := tx.Exec(ctx, l.sql.insertSong, s.SongID, s.Title, s.ArtistID, s.Year, s.Duration); err != nil {
				return fmt.Errorf("insert song %s: %w", s.SongID, err)
			}
			st.Songs++
		}
		for _, a := range transformer.BuildArtists(songs) {
			ok, err := l.insertIfAbsent(ctx, tx, l.sql.countArtist, a.ArtistID, l.sql.insertArtist,
				a.ArtistID, a.Name, a.Location, storage.Value(a.Latitude), storage.Value(a.Longitude))
			if err != nil {
				return fmt.Errorf("insert artist %s: %w", a.ArtistID, err)
			}
			if ok {
				st.Artists++
			}
		}
		return nil
	})
	return st, err
}

// LoadLogFile loads the time, users and songplays rows derived from the
// NextSong events of one log file in a single transaction.
func (l *Loader) LoadLogFile(ctx context.Context, events []records.Event) (Stats, error) {
	plays := transformer.FilterNextSong(events)
	staged := make(map[int64]time.Time)

	var st Stats
	err := l.inTx(ctx, func(tx storage.Tx) error {
		for _, t := range transformer.BuildTimes(plays) {
			ok, err := l.insertIfAbsent(ctx, tx, l.sql.countTime, t.StartTime, l.sql.insertTime,
				t.StartTime, t.Hour, t.Day, t.Week, t.Month, t.Year, t.Weekday)
			if err != nil {
				return fmt.Errorf("insert time %s: %w", t.StartTime.Format(time.RFC3339Nano), err)
			}
			if ok {
				st.Times++
			}
		}

		for _, p := range transformer.LatestPlayPerUser(plays) {
			inserted, updated, err := l.upsertUser(ctx, tx, p)
			if err != nil {
				return fmt.Errorf("upsert user %d: %w", p.UserID, err)
			}
			if inserted || updated {
				staged[p.UserID] = p.StartTime
			}
			if inserted {
				st.Users++
			}
			if updated {
				st.UsersUpdated++
			}
		}

		facts, err := transformer.BuildSongplays(ctx, plays, txResolver{q: tx, query: l.sql.resolve})
		if err != nil {
			return err
		}
		for _, f := range facts {
			if err := tx.Exec(ctx, l.sql.insertSongplay,
				f.StartTime, f.UserID, f.Level, storage.Value(f.SongID), storage.Value(f.ArtistID), f.SessionID, f.Location, f.UserAgent); err != nil {
				return fmt.Errorf("insert songplay: %w", err)
			}
			st.Songplays++
			if f.SongID == nil {
				st.Unresolved++
			}
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	for id, ts := range staged {
		l.levelAt[id] = ts
	}
	return st, nil
}

// upsertUser inserts the user when absent; otherwise it updates level when p
// is strictly later than the play whose level is stored.
func (l *Loader) upsertUser(ctx context.Context, tx storage.Tx, p transformer.Play) (inserted, updated bool, err error) {
	u := transformer.UserRowOf(p)
	inserted, err = l.insertIfAbsent(ctx, tx, l.sql.countUser, u.UserID, l.sql.insertUser,
		u.UserID, u.FirstName, u.LastName, u.Gender, u.Level)
	if err != nil || inserted {
		return inserted, false, err
	}
	if prev, seen := l.levelAt[u.UserID]; seen && !p.StartTime.After(prev) {
		return false, false, nil
	}
	if err := tx.Exec(ctx, l.sql.updateLevel, u.Level, u.UserID); err != nil {
		return false, false, err
	}
	return false, true, nil
}

func (l *Loader) insertIfAbsent(ctx context.Context, tx storage.Tx, countSQL string, key any, insertSQL string, args ...any) (bool, error) {
	var n int64
	if err := tx.QueryRow(ctx, countSQL, key).Scan(&n); err != nil {
		return false, fmt.Errorf("lookup: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if err := tx.Exec(ctx, insertSQL, args...); err != nil {
		return false, err
	}
	return true, nil
}

// inTx runs fn in a transaction, committing on success and rolling back on
// any error.
func (l *Loader) inTx(ctx context.Context, fn func(tx storage.Tx) error) (err error) {
	tx, err := l.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			l.logger.Warn("rollback failed", zap.Error(rbErr))
		}
		if errors.Is(err, storage.ErrDuplicateKey) {
			err = fmt.Errorf("%w (recreate the schema with create-tables before reloading)", err)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
