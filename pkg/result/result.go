// Package result holds the fully materialized result of a query and exposes
// it for sequential fetching, random access, text rendering and export.
//
// A MaterializedResult is either successful, holding column names and a
// columnar.Collection, or failed, holding the error. Three read paths share
// the one collection:
//
//   - Fetch hands out chunks in order. Chunks are copies and stay valid after
//     the result is closed.
//   - GetValue, ToString and Export go through a row index that is built on
//     first use and kept for the lifetime of the result.
//   - ToBox renders straight from the collection.
//
// TakeCollection moves the collection out of the result. Every later
// operation that needs the collection fails with ErrorTypeInvalidOperation.
//
// A MaterializedResult is not safe for concurrent use: the scan position and
// the row index are created lazily without locking.
package result

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/matresult/pkg/columnar"
	"github.com/ajitpratap0/matresult/pkg/errors"
	"github.com/ajitpratap0/matresult/pkg/logger"
	"github.com/ajitpratap0/matresult/pkg/metrics"
	"github.com/ajitpratap0/matresult/pkg/types"
)

// MaterializedResult is the buffered result of one statement
type MaterializedResult struct {
	statementType    StatementType
	properties       StatementProperties
	clientProperties ClientProperties

	success bool
	err     error

	names []string
	types []types.LogicalType

	coll    *columnar.Collection
	drained bool
	closed  bool

	scanProps columnar.ScanProperties
	scan      *columnar.ScanState
	rows      *columnar.RowCollection

	log     *zap.Logger
	metrics *metrics.Collector
}

// Option configures a MaterializedResult
type Option func(*MaterializedResult)

// WithLogger sets the logger used for lifecycle debug messages
func WithLogger(l *zap.Logger) Option {
	return func(r *MaterializedResult) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics records operation metrics into c
func WithMetrics(c *metrics.Collector) Option {
	return func(r *MaterializedResult) {
		r.metrics = c
	}
}

// WithScanProperties overrides how Fetch copies chunks. The default,
// DisallowZeroCopy, returns chunks that own their memory.
func WithScanProperties(p columnar.ScanProperties) Option {
	return func(r *MaterializedResult) {
		r.scanProps = p
	}
}

func newResult(opts []Option) *MaterializedResult {
	r := &MaterializedResult{scanProps: columnar.DisallowZeroCopy}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get()
	}
	return r
}

// NewSuccess creates a successful result that takes ownership of coll. The
// column types are taken from coll; names must have one entry per column.
func NewSuccess(statementType StatementType, properties StatementProperties, names []string,
	coll *columnar.Collection, clientProperties ClientProperties, opts ...Option) (*MaterializedResult, error) {
	if coll == nil {
		return nil, errors.New(errors.ErrorTypeInvalidOperation, "successful result requires a collection")
	}
	if len(names) != coll.ColumnCount() {
		return nil, errors.Newf(errors.ErrorTypeInvalidOperation,
			"got %d column names for a collection with %d columns", len(names), coll.ColumnCount()).
			WithDetail("names", names)
	}

	r := newResult(opts)
	r.statementType = statementType
	r.properties = properties
	r.clientProperties = clientProperties
	r.success = true
	r.names = append([]string(nil), names...)
	r.types = coll.Types()
	r.coll = coll
	r.log = r.log.With(zap.String("statement_type", statementType.String()))

	r.metrics.ResultOpened(coll.MemoryUsage())
	r.log.Debug("materialized result created",
		zap.Int("rows", coll.Count()),
		zap.Int("columns", coll.ColumnCount()),
		zap.Int("chunks", coll.ChunkCount()))
	return r, nil
}

// NewFailure creates a failed result. A nil err is replaced by an internal
// error so the result always carries an error text.
func NewFailure(err error, opts ...Option) *MaterializedResult {
	if err == nil {
		err = errors.New(errors.ErrorTypeInternal, "query failed without an error")
	}
	r := newResult(opts)
	r.err = err
	r.metrics.ResultOpened(0)
	r.log.Debug("failed result created", zap.Error(err))
	return r
}

// Type returns ResultMaterialized
func (r *MaterializedResult) Type() ResultType {
	return ResultMaterialized
}

// StatementType returns the category of the statement
func (r *MaterializedResult) StatementType() StatementType {
	return r.statementType
}

// Properties returns the statement properties
func (r *MaterializedResult) Properties() StatementProperties {
	return r.properties
}

// ClientProperties returns the client display settings
func (r *MaterializedResult) ClientProperties() ClientProperties {
	return r.clientProperties
}

// HasError reports whether the result is a failure
func (r *MaterializedResult) HasError() bool {
	return !r.success
}

// Err returns the error of a failed result, nil on success
func (r *MaterializedResult) Err() error {
	return r.err
}

// GetError returns the error text of a failed result, "" on success
func (r *MaterializedResult) GetError() string {
	if r.err == nil {
		return ""
	}
	return r.err.Error()
}

// Names returns a copy of the column names
func (r *MaterializedResult) Names() []string {
	return append([]string(nil), r.names...)
}

// Types returns a copy of the column types
func (r *MaterializedResult) Types() []types.LogicalType {
	return append([]types.LogicalType(nil), r.types...)
}

// ColumnCount returns the number of columns, 0 for a failed result
func (r *MaterializedResult) ColumnCount() int {
	return len(r.names)
}

// ColumnName returns the name of column i
func (r *MaterializedResult) ColumnName(i int) (string, error) {
	if i < 0 || i >= len(r.names) {
		return "", errors.Newf(errors.ErrorTypeInvalidOperation,
			"column %d out of range for %d columns", i, len(r.names))
	}
	return r.names[i], nil
}

// RowCount returns the number of rows, 0 when the result holds no collection
func (r *MaterializedResult) RowCount() int {
	if r.coll == nil {
		return 0
	}
	return r.coll.Count()
}

// checkCollection reports why the collection cannot be used, if it cannot
func (r *MaterializedResult) checkCollection(action string) error {
	switch {
	case !r.success:
		return errors.Wrap(r.err, errors.ErrorTypeInvalidOperation,
			"attempting to "+action+" an unsuccessful query result")
	case r.closed:
		return errors.New(errors.ErrorTypeInvalidOperation, "attempting to "+action+" a closed result")
	case r.drained:
		return errors.New(errors.ErrorTypeInvalidOperation,
			"attempting to "+action+" a result whose collection was taken")
	case r.coll == nil:
		return errors.New(errors.ErrorTypeInternal, "result was successful but there was no collection")
	default:
		return nil
	}
}

// Collection returns the collection without transferring ownership
func (r *MaterializedResult) Collection() (*columnar.Collection, error) {
	if err := r.checkCollection("get the collection from"); err != nil {
		return nil, err
	}
	return r.coll, nil
}

// TakeCollection moves the collection to the caller, who becomes
// responsible for releasing it. The result is drained afterwards.
func (r *MaterializedResult) TakeCollection() (*columnar.Collection, error) {
	timer := r.metrics.StartTimer(metrics.OpTake)
	if err := r.checkCollection("take the collection from"); err != nil {
		timer.Stop(err)
		return nil, err
	}

	coll := r.coll
	r.coll = nil
	r.drained = true
	r.rows = nil
	r.scan = nil

	r.metrics.ResultReleased(coll.MemoryUsage(), false)
	r.log.Debug("collection taken from result", zap.Int("rows", coll.Count()))
	timer.Stop(nil)
	return coll, nil
}

// Close releases the collection if the result still owns it. Chunks already
// returned by Fetch stay valid. Close is idempotent.
func (r *MaterializedResult) Close() error {
	if r.closed {
		return nil
	}
	var held int64
	if r.coll != nil {
		held = r.coll.MemoryUsage()
		r.coll.Release()
		r.coll = nil
	}
	r.rows = nil
	r.scan = nil
	r.closed = true
	r.metrics.ResultReleased(held, true)
	r.log.Debug("result closed")
	return nil
}
