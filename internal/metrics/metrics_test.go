package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name   string
	value  float64
	labels Labels
}

// fakeBackend records every call in order.
type fakeBackend struct {
	mu       sync.Mutex
	counters []call
	hists    []call
	flushes  int
	flushErr error
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters = append(f.counters, call{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hists = append(f.hists, call{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	return f.flushErr
}

// install swaps in a fake for the duration of the test. Tests using it
// must not run in parallel.
func install(t *testing.T) *fakeBackend {
	t.Helper()
	orig := backend
	t.Cleanup(func() { backend = orig })
	fb := &fakeBackend{}
	backend = fb
	return fb
}

func TestRecordStep(t *testing.T) {
	fb := install(t)

	RecordStep("sparkify", "stage_songs", nil, 2*time.Second)
	RecordStep("sparkify", "insert_songplays", errors.New("boom"), 1500*time.Millisecond)

	require.Len(t, fb.counters, 2)
	require.Len(t, fb.hists, 2)

	assert.Equal(t, call{StepTotal, 1, Labels{"job": "sparkify", "step": "stage_songs", "status": "success"}}, fb.counters[0])
	assert.Equal(t, call{StepDurationSeconds, 2, Labels{"job": "sparkify", "step": "stage_songs", "status": "success"}}, fb.hists[0])
	assert.Equal(t, "failure", fb.counters[1].labels["status"])
	assert.Equal(t, 1.5, fb.hists[1].value)
}

func TestRecordRowAndBatches(t *testing.T) {
	fb := install(t)

	RecordRow("sparkify", "songplays", 0)
	RecordRow("sparkify", "songplays", -3)
	RecordBatches("sparkify", 0)
	assert.Empty(t, fb.counters)

	RecordRow("sparkify", "log", 24)
	RecordBatches("sparkify", 2)
	require.Len(t, fb.counters, 2)
	assert.Equal(t, call{RecordsTotal, 24, Labels{"job": "sparkify", "kind": "log"}}, fb.counters[0])
	assert.Equal(t, call{BatchesTotal, 2, Labels{"job": "sparkify"}}, fb.counters[1])
}

func TestRecordFile(t *testing.T) {
	fb := install(t)

	RecordFile("sparkify", "song", FileLoaded)
	RecordFile("sparkify", "log", FileSkipped)

	require.Len(t, fb.counters, 2)
	assert.Equal(t, call{FilesTotal, 1, Labels{"job": "sparkify", "kind": "song", "status": "loaded"}}, fb.counters[0])
	assert.Equal(t, "skipped", fb.counters[1].labels["status"])
}

func TestSetBackendAndFlush(t *testing.T) {
	fb := install(t)
	fb.flushErr = errors.New("gateway down")

	SetBackend(nil)
	assert.Same(t, fb, backend)
	assert.EqualError(t, Flush(), "gateway down")
	assert.Equal(t, 1, fb.flushes)

	SetBackend(nopBackend{})
	assert.NoError(t, Flush())
}

func TestNopBackend(t *testing.T) {
	t.Parallel()

	var b Backend = nopBackend{}
	assert.NotPanics(t, func() {
		b.IncCounter(StepTotal, 1, nil)
		b.ObserveHistogram(StepDurationSeconds, 1, nil)
	})
	assert.NoError(t, b.Flush())
}
