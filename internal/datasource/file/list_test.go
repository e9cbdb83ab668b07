package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeList(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "files.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestReadList(t *testing.T) {
	t.Parallel()

	got, err := ReadList(writeList(t, `
# replay of 2018-11
log_data/2018/11/2018-11-01-events.json
   # indented comment
https://udacity-dend.s3.amazonaws.com/log_data/2018/11/2018-11-02-events.json

   log_data/2018/11/2018-11-03-events.json
`))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"log_data/2018/11/2018-11-01-events.json",
		"https://udacity-dend.s3.amazonaws.com/log_data/2018/11/2018-11-02-events.json",
		"log_data/2018/11/2018-11-03-events.json",
	}, got)

	got, err = ReadList(writeList(t, ""))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ReadList(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestManifest_MissingFile(t *testing.T) {
	t.Parallel()

	m := NewManifest(filepath.Join(t.TempDir(), "missing.txt"))
	_, err := m.Files(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read manifest")
}
