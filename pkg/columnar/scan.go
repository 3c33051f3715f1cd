package columnar

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/ajitpratap0/matresult/pkg/errors"
)

// ScanProperties controls whether scanned chunks may alias collection memory
type ScanProperties uint8

const (
	// AllowZeroCopy returns the stored records with an extra reference
	AllowZeroCopy ScanProperties = iota
	// DisallowZeroCopy returns deep copies that own their buffers
	DisallowZeroCopy
)

// String returns the property name used in logs
func (p ScanProperties) String() string {
	if p == AllowZeroCopy {
		return "allow_zero_copy"
	}
	return "disallow_zero_copy"
}

// ScanState is the position of a sequential scan. It only moves forward.
type ScanState struct {
	props ScanProperties
	chunk int
	rows  int
}

// Properties returns the properties the scan was initialized with
func (s *ScanState) Properties() ScanProperties {
	return s.props
}

// RowsScanned returns the number of rows handed out so far
func (s *ScanState) RowsScanned() int {
	return s.rows
}

// InitializeScan starts a new scan at the first chunk
func (c *Collection) InitializeScan(props ScanProperties) *ScanState {
	return &ScanState{props: props}
}

// Scan returns the next chunk, or nil once the collection is exhausted.
// Further calls after exhaustion keep returning nil.
func (c *Collection) Scan(state *ScanState) (*DataChunk, error) {
	if c.released {
		return nil, errors.New(errors.ErrorTypeInvalidOperation, "cannot scan a released collection")
	}
	if state.chunk >= len(c.chunks) {
		return nil, nil
	}

	rec := c.chunks[state.chunk]
	state.chunk++
	state.rows += int(rec.NumRows())

	if state.props == AllowZeroCopy {
		rec.Retain()
		return &DataChunk{rec: rec, types: c.Types()}, nil
	}

	owned, err := c.copyRecord(rec)
	if err != nil {
		return nil, err
	}
	return &DataChunk{rec: owned, types: c.Types()}, nil
}

func (c *Collection) copyRecord(rec arrow.Record) (arrow.Record, error) {
	cols := make([]arrow.Array, rec.NumCols())
	defer func() {
		for _, col := range cols {
			if col != nil {
				col.Release()
			}
		}
	}()

	for i, col := range rec.Columns() {
		copied, err := array.Concatenate([]arrow.Array{col}, c.mem)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "copy chunk column").
				WithDetail("column_index", i)
		}
		cols[i] = copied
	}
	return array.NewRecord(c.schema, cols, rec.NumRows()), nil
}
