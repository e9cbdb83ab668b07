package loader

import (
	"context"
	"database/sql"
	"fmt"

	"sparkify/internal/storage"
	"sparkify/internal/transformer"
)

// txResolver resolves plays against the songs and artists tables as seen
// by the current transaction.
type txResolver struct {
	q     storage.Querier
	query string
}

func (r txResolver) Resolve(ctx context.Context, title, artist string, length float64) (transformer.Resolution, error) {
	var (
		n                int64
		songID, artistID sql.NullString
	)
	if err := r.q.QueryRow(ctx, r.query, title, artist, length).Scan(&n, &songID, &artistID); err != nil {
		return transformer.Resolution{}, fmt.Errorf("song lookup: %w", err)
	}
	if n != 1 || !songID.Valid {
		return transformer.Resolution{}, nil
	}
	return transformer.Resolution{SongID: &songID.String, ArtistID: &artistID.String}, nil
}
