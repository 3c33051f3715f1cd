package formats

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/csv"

	"github.com/ajitpratap0/matresult/pkg/columnar"
	"github.com/ajitpratap0/matresult/pkg/errors"
)

// ReadCSV parses delimited text. Column types are inferred from the first
// data row unless pinned by opts.ColumnTypes.
func ReadCSV(r io.Reader, opts ReadOptions) (*columnar.Collection, []string, error) {
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}
	if !opts.Header && len(opts.ColumnTypes) > 0 {
		return nil, nil, errors.New(errors.ErrorTypeValidation, "column types require a CSV header")
	}

	csvOpts := []csv.Option{
		csv.WithAllocator(allocator(opts.Allocator)),
		csv.WithComma(delim),
		csv.WithHeader(opts.Header),
		csv.WithNullReader(true, opts.NullValues...),
	}
	if opts.ChunkSize > 0 {
		csvOpts = append(csvOpts, csv.WithChunk(opts.ChunkSize))
	}
	if len(opts.ColumnTypes) > 0 {
		csvOpts = append(csvOpts, csv.WithColumnTypes(opts.ColumnTypes))
	}

	rdr := csv.NewInferringReader(r, csvOpts...)
	defer rdr.Release()

	coll, names, err := collect(rdr, opts)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to read CSV")
	}
	return coll, names, nil
}
