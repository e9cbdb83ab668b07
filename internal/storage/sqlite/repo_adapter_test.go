package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparkify/internal/storage"
)

func TestRegisteredFactoryUsesHook(t *testing.T) {
	orig := newRepository
	t.Cleanup(func() { newRepository = orig })

	var (
		gotDSN string
		closed bool
		fake   = &Repository{}
	)
	newRepository = func(_ context.Context, cfg Config) (*Repository, func(), error) {
		gotDSN = cfg.DSN
		return fake, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: "file:sparkify.db"})
	require.NoError(t, err)
	assert.Equal(t, "file:sparkify.db", gotDSN)

	w, ok := repo.(*wrappedRepo)
	require.True(t, ok, "got %T", repo)
	assert.Same(t, fake, w.Repository)

	repo.Close()
	assert.True(t, closed)
}

func TestSQLiteKindIsListed(t *testing.T) {
	t.Parallel()

	assert.Contains(t, storage.ListKinds(), "sqlite")
}
