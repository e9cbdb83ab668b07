package datadog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparkify/internal/metrics"
)

func TestNewBackend_RequiresAddr(t *testing.T) {
	t.Parallel()

	b, err := NewBackend(Config{})
	assert.Error(t, err)
	assert.Nil(t, b)
}

func TestBackend_UDP(t *testing.T) {
	t.Parallel()

	// UDP needs no listener; writes are fire-and-forget.
	b, err := NewBackend(Config{Addr: "127.0.0.1:8125", Namespace: "sparkify.", GlobalTags: []string{"env:test"}})
	require.NoError(t, err)

	b.IncCounter(metrics.FilesTotal, 1, metrics.Labels{"kind": "song", "status": "loaded"})
	b.ObserveHistogram(metrics.StepDurationSeconds, 0.25, metrics.Labels{"step": "stage"})
	assert.NoError(t, b.Flush())
}

func TestZeroBackendIsNoop(t *testing.T) {
	t.Parallel()

	var b Backend
	b.IncCounter("x", 1, nil)
	b.ObserveHistogram("x", 1, nil)
	assert.NoError(t, b.Flush())
}

func TestLabelsToTags(t *testing.T) {
	t.Parallel()

	assert.Nil(t, labelsToTags(nil))
	assert.Equal(t,
		[]string{"job:local", "kind:log", "status:skipped"},
		labelsToTags(metrics.Labels{"status": "skipped", "job": "local", "kind": "log"}),
	)
}
