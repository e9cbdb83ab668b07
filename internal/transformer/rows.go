package transformer

import "time"

// SongRow is one row of the songs dimension.
type SongRow struct {
	SongID   string
	Title    string
	ArtistID string
	Year     int
	Duration float64
}

// ArtistRow is one row of the artists dimension.
type ArtistRow struct {
	ArtistID  string
	Name      string
	Location  string
	Latitude  *float64
	Longitude *float64
}

// UserRow is one row of the users dimension.
type UserRow struct {
	UserID    int64
	FirstName string
	LastName  string
	Gender    string
	Level     string
}

// TimeRow is one row of the time dimension.
type TimeRow struct {
	StartTime time.Time
	Hour      int
	Day       int
	Week      int // ISO-8601 week
	Month     int
	Year      int
	Weekday   int // ISO-8601, Monday=1 .. Sunday=7
}

// SongplayRow is one row of the songplays fact table. SongID and ArtistID
// are nil when the event could not be resolved to exactly one song.
type SongplayRow struct {
	SongplayID int64
	StartTime  time.Time
	UserID     int64
	Level      string
	SongID     *string
	ArtistID   *string
	SessionID  int64
	Location   string
	UserAgent  string
}
