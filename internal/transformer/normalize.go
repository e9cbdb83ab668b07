package transformer

import (
	"time"

	"sparkify/internal/records"
)

// SongRowOf projects the song columns of a catalog record.
func SongRowOf(s records.Song) SongRow {
	return SongRow{
		SongID:   s.SongID,
		Title:    s.Title,
		ArtistID: s.ArtistID,
		Year:     s.Year,
		Duration: s.Duration,
	}
}

// ArtistRowOf projects the artist columns of a catalog record.
func ArtistRowOf(s records.Song) ArtistRow {
	return ArtistRow{
		ArtistID:  s.ArtistID,
		Name:      s.ArtistName,
		Location:  s.ArtistLocation,
		Latitude:  s.ArtistLatitude,
		Longitude: s.ArtistLongitude,
	}
}

// Play is a NextSong event with its derived start time and user id.
type Play struct {
	Event     records.Event
	StartTime time.Time
	UserID    int64
}

var playbackOnly = Chain[records.Event]{
	Filter[records.Event](records.Event.IsNextSong),
	Filter[records.Event](func(e records.Event) bool { return e.UserID != nil }),
}

// FilterNextSong keeps playback events, in input order, and derives their
// start time. It runs before any de-duplication or time derivation.
func FilterNextSong(events []records.Event) []Play {
	kept := playbackOnly.Apply(events)
	out := make([]Play, 0, len(kept))
	for _, e := range kept {
		out = append(out, Play{Event: e, StartTime: ToTimestamp(e.TS), UserID: *e.UserID})
	}
	return out
}

// ToTimestamp converts epoch milliseconds to a UTC time.
func ToTimestamp(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

// TimeRowOf derives the calendar breakdown of t (evaluated in UTC).
func TimeRowOf(t time.Time) TimeRow {
	t = t.UTC()
	_, week := t.ISOWeek()
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return TimeRow{
		StartTime: t,
		Hour:      t.Hour(),
		Day:       t.Day(),
		Week:      week,
		Month:     int(t.Month()),
		Year:      t.Year(),
		Weekday:   wd,
	}
}
