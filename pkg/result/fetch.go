package result

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/matresult/pkg/columnar"
	"github.com/ajitpratap0/matresult/pkg/metrics"
)

// Fetch returns the next chunk of the result, or nil once every row has been
// returned. The scan starts on the first call and only moves forward; calls
// after the end keep returning nil. The caller owns the returned chunk and
// must Release it.
func (r *MaterializedResult) Fetch() (*columnar.DataChunk, error) {
	timer := r.metrics.StartTimer(metrics.OpFetch)
	if err := r.checkCollection("fetch from"); err != nil {
		timer.Stop(err)
		return nil, err
	}

	if r.scan == nil {
		r.scan = r.coll.InitializeScan(r.scanProps)
		r.log.Debug("scan initialized", zap.Stringer("scan_properties", r.scanProps))
	}

	chunk, err := r.coll.Scan(r.scan)
	timer.Stop(err)
	if err != nil {
		return nil, err
	}
	if chunk != nil {
		r.metrics.RecordChunk(chunk.Size())
	}
	return chunk, nil
}

// FetchRaw is Fetch. A materialized result has no cheaper raw path.
func (r *MaterializedResult) FetchRaw() (*columnar.DataChunk, error) {
	return r.Fetch()
}
