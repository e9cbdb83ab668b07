package transformer

import (
	"strconv"
	"time"

	"sparkify/internal/records"
	"sparkify/internal/transformer/builtin"
)

// BuildSongs returns one row per song_id; the first-seen record wins.
func BuildSongs(songs []records.Song) []SongRow {
	rows := make([]SongRow, len(songs))
	for i, s := range songs {
		rows[i] = SongRowOf(s)
	}
	return builtin.DeDup[SongRow]{
		Key:    func(r SongRow) string { return r.SongID },
		Policy: builtin.KeepFirst,
	}.Apply(rows)
}

// BuildArtists returns one row per artist_id; the first-seen record wins.
func BuildArtists(songs []records.Song) []ArtistRow {
	rows := make([]ArtistRow, len(songs))
	for i, s := range songs {
		rows[i] = ArtistRowOf(s)
	}
	return builtin.DeDup[ArtistRow]{
		Key:    func(r ArtistRow) string { return r.ArtistID },
		Policy: builtin.KeepFirst,
	}.Apply(rows)
}

// LatestPlayPerUser returns, per user, the play with the latest start time;
// equal start times keep the first-seen play. Output is in order of each
// user's first appearance.
func LatestPlayPerUser(plays []Play) []Play {
	return builtin.DeDup[Play]{
		Key:    func(p Play) string { return strconv.FormatInt(p.UserID, 10) },
		Policy: builtin.Latest,
		Newer:  func(a, b Play) bool { return a.StartTime.After(b.StartTime) },
	}.Apply(plays)
}

// UserRowOf projects the user columns of a play.
func UserRowOf(p Play) UserRow {
	return UserRow{
		UserID:    p.UserID,
		FirstName: p.Event.FirstName,
		LastName:  p.Event.LastName,
		Gender:    p.Event.Gender,
		Level:     p.Event.Level,
	}
}

// BuildUsers returns one row per user, taken from LatestPlayPerUser.
func BuildUsers(plays []Play) []UserRow {
	latest := LatestPlayPerUser(plays)
	out := make([]UserRow, len(latest))
	for i, p := range latest {
		out[i] = UserRowOf(p)
	}
	return out
}

// BuildTimes returns one row per distinct start time, first-seen order.
func BuildTimes(plays []Play) []TimeRow {
	rows := make([]TimeRow, len(plays))
	for i, p := range plays {
		rows[i] = TimeRowOf(p.StartTime)
	}
	return builtin.DeDup[TimeRow]{
		Key:    func(r TimeRow) string { return r.StartTime.Format(time.RFC3339Nano) },
		Policy: builtin.KeepFirst,
	}.Apply(rows)
}
