package columnar

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/ajitpratap0/matresult/pkg/types"
)

// DataChunk is one chunk handed out by a scan. The caller owns it and must
// Release it.
type DataChunk struct {
	rec   arrow.Record
	types []types.LogicalType
}

// Size returns the number of rows in the chunk
func (d *DataChunk) Size() int {
	return int(d.rec.NumRows())
}

// ColumnCount returns the number of columns in the chunk
func (d *DataChunk) ColumnCount() int {
	return int(d.rec.NumCols())
}

// Types returns a copy of the logical column types
func (d *DataChunk) Types() []types.LogicalType {
	return append([]types.LogicalType(nil), d.types...)
}

// Column returns the arrow array of column i
func (d *DataChunk) Column(i int) arrow.Array {
	return d.rec.Column(i)
}

// Record returns the underlying arrow record
func (d *DataChunk) Record() arrow.Record {
	return d.rec
}

// GetValue decodes the cell at (col, row)
func (d *DataChunk) GetValue(col, row int) types.Value {
	return types.ValueAt(d.rec.Column(col), row, d.types[col])
}

// Release drops the chunk's reference to its arrow memory
func (d *DataChunk) Release() {
	if d.rec != nil {
		d.rec.Release()
		d.rec = nil
	}
}
