package columnar

import (
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/matresult/pkg/errors"
	"github.com/ajitpratap0/matresult/pkg/types"
)

// Builder appends rows of Values into a new Collection, cutting a chunk every
// ChunkSize rows.
type Builder struct {
	coll *Collection
	rb   *array.RecordBuilder
	rows int
	err  error
}

// NewBuilder creates a builder for a collection with the given columns
func NewBuilder(mem memory.Allocator, names []string, lts []types.LogicalType, opts ...Option) (*Builder, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	schema, err := NewSchema(names, lts)
	if err != nil {
		return nil, err
	}
	coll, err := NewCollection(mem, schema, opts...)
	if err != nil {
		return nil, err
	}
	return &Builder{
		coll: coll,
		rb:   array.NewRecordBuilder(mem, schema),
	}, nil
}

// AppendRow appends one row. A failed append leaves the builder unusable:
// every later call returns the same error.
func (b *Builder) AppendRow(values ...types.Value) error {
	if b.err != nil {
		return b.err
	}
	if len(values) != b.coll.ColumnCount() {
		return errors.Newf(errors.ErrorTypeValidation,
			"row has %d values, collection has %d columns", len(values), b.coll.ColumnCount())
	}

	for i, v := range values {
		if err := types.AppendValue(b.rb.Field(i), v); err != nil {
			b.err = errors.Wrap(err, errors.ErrorTypeConversion, "column "+b.coll.schema.Field(i).Name).
				WithDetail("row", b.coll.count+b.rows)
			return b.err
		}
	}

	b.rows++
	if b.rows >= b.coll.chunkSize {
		return b.flush()
	}
	return nil
}

func (b *Builder) flush() error {
	if b.rows == 0 {
		return nil
	}
	rec := b.rb.NewRecord()
	defer rec.Release()
	b.rows = 0
	return b.coll.Append(rec)
}

// Build flushes pending rows and returns the collection. The builder must not
// be used afterwards.
func (b *Builder) Build() (*Collection, error) {
	if b.err != nil {
		b.Release()
		return nil, b.err
	}
	if err := b.flush(); err != nil {
		b.Release()
		return nil, err
	}
	b.rb.Release()
	b.rb = nil
	coll := b.coll
	b.coll = nil
	return coll, nil
}

// Release discards the builder and everything appended so far
func (b *Builder) Release() {
	if b.rb != nil {
		b.rb.Release()
		b.rb = nil
	}
	if b.coll != nil {
		b.coll.Release()
		b.coll = nil
	}
}
