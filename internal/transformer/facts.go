package transformer

import (
	"context"
	"fmt"
	"sort"
)

// Resolution is the outcome of matching a playback event to the catalog.
// Both ids are nil on a miss or an ambiguous match.
type Resolution struct {
	SongID   *string
	ArtistID *string
}

// Resolved reports whether the event matched exactly one song.
func (r Resolution) Resolved() bool { return r.SongID != nil }

// Resolver matches (title, artist name, duration) to a song. A miss is not
// an error; errors are reserved for failures of the lookup itself.
type Resolver interface {
	Resolve(ctx context.Context, title, artist string, length float64) (Resolution, error)
}

type songKey struct {
	title    string
	artist   string
	duration float64
}

type songRef struct {
	songID   string
	artistID string
}

// SongIndex is an in-memory Resolver over the songs and artists dimensions,
// joined on artist_id the way the relational paths join the tables.
type SongIndex struct {
	byKey map[songKey][]songRef
}

// NewSongIndex indexes songs by (title, artist name, duration). Songs whose
// artist is missing from artists are not indexed.
func NewSongIndex(songs []SongRow, artists []ArtistRow) *SongIndex {
	names := make(map[string]string, len(artists))
	for _, a := range artists {
		if _, ok := names[a.ArtistID]; !ok {
			names[a.ArtistID] = a.Name
		}
	}
	idx := &SongIndex{byKey: make(map[songKey][]songRef, len(songs))}
	for _, s := range songs {
		name, ok := names[s.ArtistID]
		if !ok {
			continue
		}
		k := songKey{title: s.Title, artist: name, duration: s.Duration}
		refs := idx.byKey[k]
		dup := false
		for _, r := range refs {
			if r.songID == s.SongID {
				dup = true
				break
			}
		}
		if !dup {
			idx.byKey[k] = append(refs, songRef{songID: s.SongID, artistID: s.ArtistID})
		}
	}
	return idx
}

// Resolve implements Resolver.
func (x *SongIndex) Resolve(_ context.Context, title, artist string, length float64) (Resolution, error) {
	refs := x.byKey[songKey{title: title, artist: artist, duration: length}]
	if len(refs) != 1 {
		return Resolution{}, nil
	}
	songID, artistID := refs[0].songID, refs[0].artistID
	return Resolution{SongID: &songID, ArtistID: &artistID}, nil
}

// BuildSongplays builds one fact per play, in input order. Plays without a
// length are left unresolved without consulting r. SongplayID is left zero.
func BuildSongplays(ctx context.Context, plays []Play, r Resolver) ([]SongplayRow, error) {
	out := make([]SongplayRow, 0, len(plays))
	for _, p := range plays {
		var res Resolution
		if p.Event.Length != nil {
			var err error
			res, err = r.Resolve(ctx, p.Event.Song, p.Event.Artist, *p.Event.Length)
			if err != nil {
				return nil, fmt.Errorf("resolve %q by %q: %w", p.Event.Song, p.Event.Artist, err)
			}
		}
		out = append(out, SongplayRow{
			StartTime: p.StartTime,
			UserID:    p.UserID,
			Level:     p.Event.Level,
			SongID:    res.SongID,
			ArtistID:  res.ArtistID,
			SessionID: p.Event.SessionID,
			Location:  p.Event.Location,
			UserAgent: p.Event.UserAgent,
		})
	}
	return out, nil
}

// AssignSongplayIDs returns rows ordered by start time (stable) and numbered
// 1..n in that order. The input slice is not modified.
func AssignSongplayIDs(rows []SongplayRow) []SongplayRow {
	out := make([]SongplayRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	for i := range out {
		out[i].SongplayID = int64(i + 1)
	}
	return out
}
