package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	resulterrors "github.com/ajitpratap0/matresult/pkg/errors"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.StartTimer(OpFetch).Stop(nil)
	c.StartTimer(OpFetch).Stop(errors.New("boom"))
	c.RecordChunk(2048)
	c.RecordChunk(10)
	c.RecordExport(6)
	c.RecordIndexBuild()
	c.ResultOpened(1000)
	c.ResultReleased(400, false)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues(OpFetch, "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues(OpFetch, "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.failures.WithLabelValues(OpFetch, "unknown")))
	assert.Equal(t, 2058.0, testutil.ToFloat64(c.rowsFetched))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.chunks))
	assert.Equal(t, 6.0, testutil.ToFloat64(c.cells))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.indexBuilds))
	assert.Equal(t, 600.0, testutil.ToFloat64(c.bufferBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.openResults))

	count, err := testutil.GatherAndCount(reg, "matresult_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFailuresByType(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.StartTimer(OpGetValue).Stop(resulterrors.New(resulterrors.ErrorTypeInvalidOperation, "row out of range"))
	c.StartTimer(OpGetValue).Stop(resulterrors.New(resulterrors.ErrorTypeInvalidOperation, "column out of range"))
	c.StartTimer(OpGetValue).Stop(nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.failures.WithLabelValues(OpGetValue, "invalid_operation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues(OpGetValue, "success")))
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.StartTimer(OpExport).Stop(nil)
		c.RecordChunk(1)
		c.RecordExport(1)
		c.RecordIndexBuild()
		c.ResultOpened(1)
		c.ResultReleased(1, true)
	})
}
