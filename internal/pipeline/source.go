package pipeline

import (
	"strings"

	"sparkify/internal/datasource"
	"sparkify/internal/datasource/file"
	"sparkify/internal/datasource/s3"
)

// OpenSource picks the datasource for location: an s3:// URL, a manifest
// (a .txt file listing one path per line), or a local directory tree.
func OpenSource(location string, cfg s3.Config) (datasource.Source, error) {
	switch {
	case s3.IsURL(location):
		return s3.Open(location, cfg)
	case strings.HasSuffix(strings.ToLower(location), ".txt"):
		return file.NewManifest(location), nil
	default:
		return file.NewLocal(location), nil
	}
}
