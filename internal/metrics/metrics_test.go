package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerRecords(t *testing.T) {
	m := NewManager()

	m.RecordScored(20*time.Millisecond, true)
	m.RecordScored(10*time.Millisecond, false)
	m.RecordScored(5*time.Millisecond, false)
	m.RecordDropped(ReasonTimeout)
	m.RecordBatch(4, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.postingsScored.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.postingsScored.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.postingsDropped.WithLabelValues(ReasonTimeout)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.postingsDropped.WithLabelValues(ReasonPanic)))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.batchSize))
}

func TestManagerOptions(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewManager(WithNamespace("test"), WithRegistry(registry), WithHistogramBuckets([]float64{1}))
	m.RecordBatch(1, time.Millisecond)

	assert.Same(t, registry, m.Registry())

	families, err := registry.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_ranker_batch_size")
}

func TestWriteTextfile(t *testing.T) {
	m := NewManager()
	m.RecordDropped(ReasonPanic)

	path := filepath.Join(t.TempDir(), "jobrank.prom")
	require.NoError(t, m.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `jobrank_ranker_postings_dropped_total{reason="panic"} 1`))

	assert.Error(t, m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")))
}
