package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"sparkify/internal/datasource"
)

// IsURL reports whether location is an http:// or https:// URL.
func IsURL(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// File is one input file fetched with GET.
type File struct {
	client *Client
	url    string
}

var _ datasource.File = (*File)(nil)

// NewFile returns a File for url fetched through c.
func NewFile(c *Client, url string) *File { return &File{client: c, url: url} }

// Name implements datasource.File.
func (f *File) Name() string { return f.url }

// Open implements datasource.File. Any status outside 2xx is an error.
func (f *File) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := f.client.Get(ctx, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", f.url, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("get %s: status %s", f.url, resp.Status)
	}
	return resp.Body, nil
}
