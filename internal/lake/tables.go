package lake

import (
	"context"
	"time"

	"sparkify/internal/records"
	"sparkify/internal/transformer"
)

// Parquet row types. Partition columns are encoded in the directory path
// and left out of the files.

type songRow struct {
	SongID   string  `parquet:"name=song_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Title    string  `parquet:"name=title, type=BYTE_ARRAY, convertedtype=UTF8"`
	Duration float64 `parquet:"name=duration, type=DOUBLE"`
}

type artistRow struct {
	ArtistID  string   `parquet:"name=artist_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Name      string   `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Location  string   `parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	Latitude  *float64 `parquet:"name=latitude, type=DOUBLE, repetitiontype=OPTIONAL"`
	Longitude *float64 `parquet:"name=longitude, type=DOUBLE, repetitiontype=OPTIONAL"`
}

type userRow struct {
	UserID    int64  `parquet:"name=user_id, type=INT64"`
	FirstName string `parquet:"name=first_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	LastName  string `parquet:"name=last_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Gender    string `parquet:"name=gender, type=BYTE_ARRAY, convertedtype=UTF8"`
	Level     string `parquet:"name=level, type=BYTE_ARRAY, convertedtype=UTF8"`
}

type timeRow struct {
	StartTime int64 `parquet:"name=start_time, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	Hour      int32 `parquet:"name=hour, type=INT32"`
	Day       int32 `parquet:"name=day, type=INT32"`
	Week      int32 `parquet:"name=week, type=INT32"`
	Weekday   int32 `parquet:"name=weekday, type=INT32"`
}

type songplayRow struct {
	SongplayID int64   `parquet:"name=songplay_id, type=INT64"`
	StartTime  int64   `parquet:"name=start_time, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	UserID     int64   `parquet:"name=user_id, type=INT64"`
	Level      string  `parquet:"name=level, type=BYTE_ARRAY, convertedtype=UTF8"`
	SongID     *string `parquet:"name=song_id, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	ArtistID   *string `parquet:"name=artist_id, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	SessionID  int64   `parquet:"name=session_id, type=INT64"`
	Location   string  `parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	UserAgent  string  `parquet:"name=user_agent, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// Tables holds the five star-schema tables of one run, in memory.
type Tables struct {
	Songs     []transformer.SongRow
	Artists   []transformer.ArtistRow
	Users     []transformer.UserRow
	Times     []transformer.TimeRow
	Songplays []transformer.SongplayRow
}

// Build derives every table from the decoded inputs. Songplays are
// resolved against the songs and artists built here and numbered 1..n by
// start time.
func Build(ctx context.Context, songs []records.Song, events []records.Event) (Tables, error) {
	t := Tables{
		Songs:   transformer.BuildSongs(songs),
		Artists: transformer.BuildArtists(songs),
	}
	plays := transformer.FilterNextSong(events)
	t.Users = transformer.BuildUsers(plays)
	t.Times = transformer.BuildTimes(plays)

	facts, err := transformer.BuildSongplays(ctx, plays, transformer.NewSongIndex(t.Songs, t.Artists))
	if err != nil {
		return Tables{}, err
	}
	t.Songplays = transformer.AssignSongplayIDs(facts)
	return t, nil
}

func millis(t time.Time) int64 { return t.UTC().UnixMilli() }
