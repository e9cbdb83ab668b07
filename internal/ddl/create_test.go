package ddl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparkify/internal/schema"
)

func dq(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

func TestBuildCreateTableSQL_Invalid(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		def  TableDef
		want string
	}{
		"empty fqn":    {TableDef{FQN: " ", Columns: []ColumnDef{{Name: "id", SQLType: "INT"}}}, "table FQN must not be empty"},
		"no columns":   {TableDef{FQN: "songs"}, "at least one column"},
		"empty column": {TableDef{FQN: "songs", Columns: []ColumnDef{{Name: "", SQLType: "INT"}}}, "column with empty name"},
		"missing type": {TableDef{FQN: "songs", Columns: []ColumnDef{{Name: "id"}}}, "missing SQLType"},
	} {
		sql, err := BuildCreateTableSQL(tc.def, Options{})
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), tc.want, name)
		assert.Empty(t, sql, name)
	}
}

func TestBuildCreateTableSQL_Render(t *testing.T) {
	t.Parallel()

	def := TableDef{
		FQN: "public.users",
		Columns: []ColumnDef{
			{Name: "user_id", SQLType: "BIGINT", PrimaryKey: true, Nullable: true},
			{Name: "first_name", SQLType: "TEXT", Nullable: true},
			{Name: "level", SQLType: "TEXT", Default: "'free'"},
		},
	}

	got, err := BuildCreateTableSQL(def, Options{Quote: dq, IfNotExists: true})
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "public"."users" (
  "user_id" BIGINT NOT NULL,
  "first_name" TEXT,
  "level" TEXT NOT NULL DEFAULT 'free',
  PRIMARY KEY ("user_id")
);`, got)

	got, err = BuildCreateTableSQL(def, Options{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "CREATE TABLE public.users (\n  user_id BIGINT NOT NULL,"), got)
}

func TestBuildCreateTableSQL_CompositeKey(t *testing.T) {
	t.Parallel()

	got, err := BuildCreateTableSQL(TableDef{
		FQN: "t",
		Columns: []ColumnDef{
			{Name: "a", SQLType: "INT", PrimaryKey: true},
			{Name: "b", SQLType: "INT", PrimaryKey: true},
		},
	}, Options{Quote: dq})
	require.NoError(t, err)
	assert.Contains(t, got, `PRIMARY KEY ("a", "b")`)
}

func TestBuildDropTableSQL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `DROP TABLE IF EXISTS "time";`, BuildDropTableSQL("time", Options{Quote: dq, IfNotExists: true}))
	assert.Equal(t, `DROP TABLE songs;`, BuildDropTableSQL("songs", Options{}))
}

func TestQuoteFQN(t *testing.T) {
	t.Parallel()

	o := Options{Quote: dq}
	assert.Equal(t, `"main"."events"`, o.QuoteFQN(" .main..events. "))
	assert.Equal(t, `"a"."b"."c"`, o.QuoteFQN("a.b.c"))
	assert.Equal(t, "", o.QuoteFQN(""))
	assert.Equal(t, "a.b", Options{}.QuoteFQN("a.b"))
}

func TestFromTable(t *testing.T) {
	t.Parallel()

	songplays, ok := schema.Lookup(schema.Songplays)
	require.True(t, ok)

	def := FromTable(songplays, strings.ToUpper)
	assert.Equal(t, "songplays", def.FQN)
	require.Len(t, def.Columns, len(songplays.Columns))

	id := def.Columns[0]
	assert.Equal(t, ColumnDef{Name: "songplay_id", SQLType: "IDENTITY", PrimaryKey: true}, id)
	for _, c := range def.Columns {
		switch c.Name {
		case "start_time", "user_id":
			assert.False(t, c.Nullable, c.Name)
		case "song_id", "artist_id":
			assert.True(t, c.Nullable, c.Name)
			assert.Equal(t, "KEY", c.SQLType)
		}
	}
}
