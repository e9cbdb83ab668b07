// Package records defines the two source record shapes the pipeline reads:
// song catalog entries and user-activity log events.
//
// Every decoded record is one of these two concrete types. The parser rejects
// anything else at the boundary, so downstream packages never see untyped
// JSON maps.
package records

import (
	"fmt"
	"strings"
)

// Kind discriminates the two input families.
type Kind string

const (
	// KindSong marks song metadata files (one JSON object per file).
	KindSong Kind = "song"
	// KindLog marks user-activity log files (one JSON object per line).
	KindLog Kind = "log"
)

// ParseKind maps a user-supplied string ("song", "log", "event") to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "song", "songs":
		return KindSong, nil
	case "log", "logs", "event", "events":
		return KindLog, nil
	default:
		return "", fmt.Errorf("records: unknown kind %q", s)
	}
}

// Record is the sealed variant over Song and Event.
type Record interface {
	Kind() Kind
	isRecord()
}

// Song is one entry of the song catalog. Artist fields are denormalised
// into every song, exactly as they appear in the source files.
type Song struct {
	NumSongs int

	SongID   string
	Title    string
	Year     int
	Duration float64

	ArtistID        string
	ArtistName      string
	ArtistLocation  string
	ArtistLatitude  *float64
	ArtistLongitude *float64
}

// Kind implements Record.
func (Song) Kind() Kind { return KindSong }
func (Song) isRecord()  {}

// PageNextSong is the page value of a playback event.
const PageNextSong = "NextSong"

// Event is one line of the user-activity log. Playback metadata (Artist,
// Song, Length) is only meaningful on NextSong events; UserID is nil for
// logged-out activity.
type Event struct {
	Artist        string
	Auth          string
	FirstName     string
	Gender        string
	ItemInSession int
	LastName      string
	Length        *float64
	Level         string
	Location      string
	Method        string
	Page          string
	Registration  *float64
	SessionID     int64
	Song          string
	Status        int
	TS            int64 // epoch milliseconds
	UserAgent     string
	UserID        *int64
}

// Kind implements Record.
func (Event) Kind() Kind { return KindLog }
func (Event) isRecord()  {}

// IsNextSong reports whether the event is a playback event.
func (e Event) IsNextSong() bool { return e.Page == PageNextSong }

// Split separates a mixed record slice into songs and events, preserving
// the relative order of each.
func Split(recs []Record) ([]Song, []Event) {
	var songs []Song
	var events []Event
	for _, r := range recs {
		switch v := r.(type) {
		case Song:
			songs = append(songs, v)
		case Event:
			events = append(events, v)
		}
	}
	return songs, events
}
