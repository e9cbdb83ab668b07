package ddl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparkify/internal/schema"
)

func TestMapType(t *testing.T) {
	t.Parallel()

	for kind, want := range map[string]string{
		"key":       "VARCHAR(255)",
		"text":      "TEXT",
		" INT ":     "INT",
		"bigint":    "BIGINT",
		"identity":  "BIGINT AUTO_INCREMENT",
		"float":     "DOUBLE",
		"timestamp": "DATETIME(3)",
		"unknown":   "TEXT",
		"":          "TEXT",
		"boolean":   "TINYINT(1)",
	} {
		assert.Equal(t, want, MapType(kind), kind)
	}
}

func TestBuilderSongs(t *testing.T) {
	t.Parallel()

	songs, ok := schema.Lookup(schema.Songs)
	require.True(t, ok)

	got, err := Builder{}.CreateTableSQL(songs)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "CREATE TABLE IF NOT EXISTS `songs` ("), got)
	assert.Contains(t, got, "`song_id` VARCHAR(255) NOT NULL")
	assert.Contains(t, got, "`artist_id` VARCHAR(255) NOT NULL")
	assert.Contains(t, got, "`duration` DOUBLE")
	assert.Contains(t, got, "PRIMARY KEY (`song_id`)")

	assert.Equal(t, "DROP TABLE IF EXISTS `songs`;", Builder{}.DropTableSQL("songs"))
	assert.Equal(t, "`a``b`", quoteIdent("a`b"))
}

func TestBuilderSongplaysIdentity(t *testing.T) {
	t.Parallel()

	sp, _ := schema.Lookup(schema.Songplays)
	got, err := Builder{}.CreateTableSQL(sp)
	require.NoError(t, err)
	assert.Contains(t, got, "`songplay_id` BIGINT AUTO_INCREMENT NOT NULL")
	assert.Contains(t, got, "`start_time` DATETIME(3) NOT NULL")
}
