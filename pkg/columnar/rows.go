package columnar

import (
	"github.com/ajitpratap0/matresult/pkg/errors"
	"github.com/ajitpratap0/matresult/pkg/types"
)

type rowRef struct {
	chunk  int32
	offset int32
}

// RowCollection gives random access to the rows of a Collection. It holds
// positions only; cells are decoded from the collection on every access, so
// it is valid only while the collection is.
type RowCollection struct {
	coll *Collection
	refs []rowRef
}

// Row is one row of a RowCollection
type Row struct {
	rows *RowCollection
	ref  rowRef
}

// GetRows builds the row index of the collection. The cost is one entry per
// row.
func (c *Collection) GetRows() (*RowCollection, error) {
	if c.released {
		return nil, errors.New(errors.ErrorTypeInvalidOperation, "cannot index a released collection")
	}
	refs := make([]rowRef, 0, c.count)
	for ci, rec := range c.chunks {
		n := int32(rec.NumRows())
		for off := int32(0); off < n; off++ {
			refs = append(refs, rowRef{chunk: int32(ci), offset: off})
		}
	}
	return &RowCollection{coll: c, refs: refs}, nil
}

// Count returns the number of rows
func (r *RowCollection) Count() int {
	return len(r.refs)
}

// ColumnCount returns the number of columns
func (r *RowCollection) ColumnCount() int {
	return r.coll.ColumnCount()
}

// Row returns row i. It panics if i is out of range.
func (r *RowCollection) Row(i int) Row {
	return Row{rows: r, ref: r.refs[i]}
}

// GetValue decodes the cell at (col, row). It panics if either index is out
// of range.
func (r *RowCollection) GetValue(col, row int) types.Value {
	return r.Row(row).GetValue(col)
}

// GetValue decodes column col of the row
func (row Row) GetValue(col int) types.Value {
	c := row.rows.coll
	rec := c.chunks[row.ref.chunk]
	return types.ValueAt(rec.Column(col), int(row.ref.offset), c.types[col])
}

// Values decodes every cell of the row
func (row Row) Values() []types.Value {
	out := make([]types.Value, row.rows.ColumnCount())
	for i := range out {
		out[i] = row.GetValue(i)
	}
	return out
}
