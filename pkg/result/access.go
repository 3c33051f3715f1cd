package result

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/matresult/pkg/columnar"
	"github.com/ajitpratap0/matresult/pkg/errors"
	"github.com/ajitpratap0/matresult/pkg/metrics"
	"github.com/ajitpratap0/matresult/pkg/types"
)

// rowIndex returns the row index, building it on first use
func (r *MaterializedResult) rowIndex(action string) (*columnar.RowCollection, error) {
	if err := r.checkCollection(action); err != nil {
		return nil, err
	}
	if r.rows != nil {
		return r.rows, nil
	}

	timer := r.metrics.StartTimer(metrics.OpBuildIndex)
	rows, err := r.coll.GetRows()
	d := timer.Stop(err)
	if err != nil {
		return nil, err
	}
	r.metrics.RecordIndexBuild()
	r.log.Debug("row index built", zap.Int("rows", rows.Count()), zap.Duration("took", d))
	r.rows = rows
	return rows, nil
}

// GetValue returns the cell at (column, row).
//
// The first call builds a row index over the whole result, so random access
// is considerably slower than Fetch for reading every row.
func (r *MaterializedResult) GetValue(column, row int) (types.Value, error) {
	timer := r.metrics.StartTimer(metrics.OpGetValue)
	rows, err := r.rowIndex("get a value from")
	if err == nil {
		err = r.checkIndex(column, row)
	}
	timer.Stop(err)
	if err != nil {
		return types.Value{}, err
	}
	return rows.GetValue(column, row), nil
}

func (r *MaterializedResult) checkIndex(column, row int) error {
	if column < 0 || column >= r.coll.ColumnCount() {
		return errors.Newf(errors.ErrorTypeInvalidOperation,
			"column %d out of range for %d columns", column, r.coll.ColumnCount())
	}
	if row < 0 || row >= r.coll.Count() {
		return errors.Newf(errors.ErrorTypeInvalidOperation,
			"row %d out of range for %d rows", row, r.coll.Count())
	}
	return nil
}

// ValueAs returns the cell at (column, row) as the integer type T.
//
// Values that do not fit in T are an ErrorTypeOutOfRange error. NULL and
// fractional values are an ErrorTypeConversion error.
func ValueAs[T types.Integral](r *MaterializedResult, column, row int) (T, error) {
	v, err := r.GetValue(column, row)
	if err != nil {
		var zero T
		return zero, err
	}
	return types.Narrow[T](v)
}
