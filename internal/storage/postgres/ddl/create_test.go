package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gddl "sparkify/internal/ddl"
	"sparkify/internal/schema"
)

func TestQuoting(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"time"`, quoteIdent("time"))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
	assert.Equal(t, `"public"."songs"`, quoteFQN("public.songs"))
	assert.Equal(t, `"public"."songs"`, quoteFQN(" public..songs "))
}

func TestBuildCreateTableSQL_Errors(t *testing.T) {
	t.Parallel()

	for _, def := range []gddl.TableDef{
		{FQN: "", Columns: []gddl.ColumnDef{{Name: "id", SQLType: "INT"}}},
		{FQN: "t"},
		{FQN: "t", Columns: []gddl.ColumnDef{{Name: "id"}}},
	} {
		sql, err := BuildCreateTableSQL(def)
		assert.Error(t, err)
		assert.Empty(t, sql)
	}
}

func TestBuilder_StarSchema(t *testing.T) {
	t.Parallel()

	sp, ok := schema.Lookup(schema.Songplays)
	require.True(t, ok)
	got, err := Builder{}.CreateTableSQL(sp)
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "songplays" (
  "songplay_id" BIGINT GENERATED ALWAYS AS IDENTITY NOT NULL,
  "start_time" TIMESTAMP NOT NULL,
  "user_id" BIGINT NOT NULL,
  "level" TEXT,
  "song_id" TEXT,
  "artist_id" TEXT,
  "session_id" BIGINT,
  "location" TEXT,
  "user_agent" TEXT,
  PRIMARY KEY ("songplay_id")
);`, got)

	tm, _ := schema.Lookup(schema.Time)
	got, err = Builder{}.CreateTableSQL(tm)
	require.NoError(t, err)
	assert.Contains(t, got, `CREATE TABLE IF NOT EXISTS "time"`)
	assert.Contains(t, got, `"weekday" INTEGER`)

	ev, _ := schema.Lookup(schema.StagingEvents)
	got, err = Builder{}.CreateTableSQL(ev)
	require.NoError(t, err)
	assert.Contains(t, got, `"event_seq" BIGINT NOT NULL`)
	assert.Contains(t, got, `"length" DOUBLE PRECISION`)
	assert.NotContains(t, got, "PRIMARY KEY")

	assert.Equal(t, `DROP TABLE IF EXISTS "staging_events";`, Builder{}.DropTableSQL(schema.StagingEvents))
}
