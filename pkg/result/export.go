package result

import (
	"github.com/ajitpratap0/matresult/pkg/metrics"
	"github.com/ajitpratap0/matresult/pkg/variant"
)

// Export converts every cell into a variant, row by row.
//
// A failed result exports as an empty slice and no error. The output never
// references arrow memory and stays valid after Close.
func (r *MaterializedResult) Export() ([][]variant.Variant, error) {
	timer := r.metrics.StartTimer(metrics.OpExport)
	if !r.success {
		timer.Stop(nil)
		return [][]variant.Variant{}, nil
	}

	rows, err := r.rowIndex("export")
	if err != nil {
		timer.Stop(err)
		return nil, err
	}

	n, cols := rows.Count(), rows.ColumnCount()
	cells := make([]variant.Variant, n*cols)
	out := make([][]variant.Variant, n)
	for i := 0; i < n; i++ {
		row := rows.Row(i)
		out[i] = cells[i*cols : (i+1)*cols : (i+1)*cols]
		for j := 0; j < cols; j++ {
			out[i][j] = variant.FromValue(row.GetValue(j))
		}
	}

	r.metrics.RecordExport(len(cells))
	timer.Stop(nil)
	return out, nil
}

// Equals reports whether both results have the same outcome and, for
// successful results, the same names, types and cells. Results without a
// collection are never equal to a successful result.
func (r *MaterializedResult) Equals(other *MaterializedResult) bool {
	if r == other {
		return true
	}
	if other == nil || r.success != other.success {
		return false
	}
	if !r.success {
		return r.GetError() == other.GetError()
	}
	if len(r.names) != len(other.names) {
		return false
	}
	for i := range r.names {
		if r.names[i] != other.names[i] || r.types[i] != other.types[i] {
			return false
		}
	}

	left, err := r.rowIndex("compare")
	if err != nil {
		return false
	}
	right, err := other.rowIndex("compare")
	if err != nil || left.Count() != right.Count() {
		return false
	}
	for i := 0; i < left.Count(); i++ {
		a, b := left.Row(i), right.Row(i)
		for j := 0; j < left.ColumnCount(); j++ {
			if !a.GetValue(j).Equal(b.GetValue(j)) {
				return false
			}
		}
	}
	return true
}
