package httpds

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statusServer answers every request with code and a small log line.
func statusServer(t *testing.T, hits *int32, code int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(hits, 1)
		w.WriteHeader(code)
		_, _ = io.WriteString(w, `{"page":"Home","ts":1}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{InsecureSkipVerify: true})
	assert.Equal(t, 30*time.Second, c.http.Timeout)

	tr, ok := c.http.Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, tr.TLSClientConfig)
	assert.True(t, tr.TLSClientConfig.InsecureSkipVerify)
}

func TestNewClient_CustomTransportKept(t *testing.T) {
	t.Parallel()

	custom := &http.Transport{TLSClientConfig: &tls.Config{}}
	c := NewClient(Config{Transport: custom, InsecureSkipVerify: true})
	assert.Same(t, custom, c.http.Transport)
	assert.False(t, custom.TLSClientConfig.InsecureSkipVerify)
}

func TestGet_SingleAttempt(t *testing.T) {
	t.Parallel()

	for _, code := range []int{http.StatusOK, http.StatusNotFound, http.StatusServiceUnavailable} {
		var hits int32
		srv := statusServer(t, &hits, code)
		resp, err := NewClient(Config{}).Get(context.Background(), srv.URL, nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, code, resp.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "status %d", code)
	}
}

func TestGet_HeadersOverrideBase(t *testing.T) {
	t.Parallel()

	seen := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Clone()
	}))
	defer srv.Close()

	c := NewClient(Config{Header: http.Header{"User-Agent": {"base"}, "X-Run": {"1"}}})
	resp, err := c.Get(context.Background(), srv.URL, http.Header{"User-Agent": {"sparkify"}})
	require.NoError(t, err)
	resp.Body.Close()
	got := <-seen
	assert.Equal(t, "sparkify", got.Get("User-Agent"))
	assert.Equal(t, "1", got.Get("X-Run"))
}

func TestGet_Errors(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{})
	_, err := c.Get(context.Background(), "", nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Get(ctx, "http://127.0.0.1:1", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFile_Open(t *testing.T) {
	t.Parallel()

	var hits int32
	ok := statusServer(t, &hits, http.StatusOK)
	f := NewFile(NewClient(Config{}), ok.URL+"/log_data/a.json")
	assert.Equal(t, ok.URL+"/log_data/a.json", f.Name())

	rc, err := f.Open(context.Background())
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, `{"page":"Home","ts":1}`, string(b))

	var misses int32
	missing := statusServer(t, &misses, http.StatusNotFound)
	_, err = NewFile(NewClient(Config{}), missing.URL+"/nope.json").Open(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&misses))
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	assert.True(t, IsURL("https://udacity-dend.s3.amazonaws.com/song_data/A/A/A/x.json"))
	assert.True(t, IsURL("HTTP://host/x.json"))
	assert.False(t, IsURL("s3://bucket/x.json"))
	assert.False(t, IsURL("data/log_data/x.json"))
}
