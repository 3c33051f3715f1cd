package columnar

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/matresult/pkg/errors"
	"github.com/ajitpratap0/matresult/pkg/types"
)

// DefaultChunkSize is the number of rows per chunk
const DefaultChunkSize = 2048

// Option configures a Collection or Builder
type Option func(*options)

type options struct {
	chunkSize int
}

// WithChunkSize sets the maximum number of rows per chunk
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Collection is an immutable columnar buffer made of arrow records
type Collection struct {
	mem       memory.Allocator
	schema    *arrow.Schema
	types     []types.LogicalType
	chunks    []arrow.Record
	count     int
	chunkSize int
	released  bool
}

// NewCollection creates an empty collection for the given arrow schema. Every
// field must map to a logical type.
func NewCollection(mem memory.Allocator, schema *arrow.Schema, opts ...Option) (*Collection, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	if schema == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "collection schema is required")
	}

	lts := make([]types.LogicalType, schema.NumFields())
	for i, f := range schema.Fields() {
		lt, err := types.FromArrow(f.Type)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConversion, "column "+f.Name).
				WithDetail("column_index", i)
		}
		lts[i] = lt
	}

	o := buildOptions(opts)
	return &Collection{
		mem:       mem,
		schema:    schema,
		types:     lts,
		chunkSize: o.chunkSize,
	}, nil
}

// NewSchema builds the arrow schema for the given column names and types
func NewSchema(names []string, lts []types.LogicalType) (*arrow.Schema, error) {
	if len(names) != len(lts) {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"got %d column names for %d types", len(names), len(lts))
	}
	fields := make([]arrow.Field, len(names))
	for i, lt := range lts {
		dt, err := lt.ToArrow()
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: names[i], Type: dt, Nullable: true}
	}
	return arrow.NewSchema(fields, nil), nil
}

// Append adds a record to the collection. Records longer than the chunk size
// are split into zero-copy slices. Empty records are ignored.
func (c *Collection) Append(rec arrow.Record) error {
	if c.released {
		return errors.New(errors.ErrorTypeInvalidOperation, "collection has been released")
	}
	if !rec.Schema().Equal(c.schema) {
		return errors.Newf(errors.ErrorTypeValidation,
			"record schema %s does not match collection schema %s", rec.Schema(), c.schema)
	}

	rows := rec.NumRows()
	if rows == 0 {
		return nil
	}
	if rows <= int64(c.chunkSize) {
		rec.Retain()
		c.chunks = append(c.chunks, rec)
		c.count += int(rows)
		return nil
	}

	for start := int64(0); start < rows; start += int64(c.chunkSize) {
		end := min(start+int64(c.chunkSize), rows)
		c.chunks = append(c.chunks, rec.NewSlice(start, end))
	}
	c.count += int(rows)
	return nil
}

// Schema returns the arrow schema of the collection
func (c *Collection) Schema() *arrow.Schema {
	return c.schema
}

// Names returns the column names in schema order
func (c *Collection) Names() []string {
	names := make([]string, c.schema.NumFields())
	for i, f := range c.schema.Fields() {
		names[i] = f.Name
	}
	return names
}

// Types returns a copy of the logical column types
func (c *Collection) Types() []types.LogicalType {
	return append([]types.LogicalType(nil), c.types...)
}

// ColumnCount returns the number of columns
func (c *Collection) ColumnCount() int {
	return len(c.types)
}

// Count returns the number of rows
func (c *Collection) Count() int {
	return c.count
}

// ChunkCount returns the number of stored chunks
func (c *Collection) ChunkCount() int {
	return len(c.chunks)
}

// Chunk returns the i-th stored record. The record is owned by the
// collection; callers that keep it past Release must Retain it.
func (c *Collection) Chunk(i int) arrow.Record {
	return c.chunks[i]
}

// Allocator returns the allocator the collection copies chunks with
func (c *Collection) Allocator() memory.Allocator {
	return c.mem
}

// MemoryUsage returns the total size in bytes of the arrow buffers
func (c *Collection) MemoryUsage() int64 {
	var total int64
	for _, rec := range c.chunks {
		for _, col := range rec.Columns() {
			total += dataSize(col.Data())
		}
	}
	return total
}

func dataSize(d arrow.ArrayData) int64 {
	var total int64
	for _, buf := range d.Buffers() {
		if buf != nil {
			total += int64(buf.Len())
		}
	}
	for _, child := range d.Children() {
		total += dataSize(child)
	}
	return total
}

// Released reports whether Release has been called
func (c *Collection) Released() bool {
	return c.released
}

// Release frees the arrow memory of all chunks. It is safe to call twice.
func (c *Collection) Release() {
	if c.released {
		return
	}
	for _, rec := range c.chunks {
		rec.Release()
	}
	c.chunks = nil
	c.released = true
}
