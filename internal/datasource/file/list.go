package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sparkify/internal/datasource"
	"sparkify/internal/datasource/httpds"
)

// ReadList reads a text file line by line and returns its non-empty,
// non-comment lines ('#' after trimming) in order.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Manifest is a Source whose files are listed in a manifest file, one path
// or http(s) URL per line. Relative paths resolve against the manifest's
// directory. It lets a run replay an exact file set instead of walking a tree.
type Manifest struct {
	path string
	http *httpds.Client
}

var _ datasource.Source = (*Manifest)(nil)

// NewManifest returns a Source backed by the list file at path.
func NewManifest(path string) *Manifest {
	return NewManifestWithClient(path, httpds.NewClient(httpds.Config{}))
}

// NewManifestWithClient is NewManifest with an explicit HTTP client.
func NewManifestWithClient(path string, c *httpds.Client) *Manifest {
	return &Manifest{path: path, http: c}
}

// Root implements datasource.Source.
func (m *Manifest) Root() string { return m.path }

// Files implements datasource.Source. Order follows the manifest.
func (m *Manifest) Files(ctx context.Context) ([]datasource.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lines, err := ReadList(m.path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", m.path, err)
	}
	base := filepath.Dir(m.path)
	out := make([]datasource.File, 0, len(lines))
	for _, l := range lines {
		if httpds.IsURL(l) {
			out = append(out, httpds.NewFile(m.http, l))
			continue
		}
		if !filepath.IsAbs(l) {
			l = filepath.Join(base, l)
		}
		out = append(out, NewLocal(l))
	}
	return out, nil
}
