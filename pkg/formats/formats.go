// Package formats reads source files into columnar collections and writes
// materialized results out as JSON, Arrow IPC, Parquet or Avro.
package formats

import (
	"bytes"
	stderrors "errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/matresult/pkg/columnar"
	"github.com/ajitpratap0/matresult/pkg/compression"
	"github.com/ajitpratap0/matresult/pkg/errors"
	"github.com/ajitpratap0/matresult/pkg/metrics"
	"github.com/ajitpratap0/matresult/pkg/result"
)

// Format is a file format
type Format string

const (
	// CSV is delimited text with an optional header line
	CSV Format = "csv"
	// JSON is a JSON array or JSON lines
	JSON Format = "json"
	// Arrow is the Arrow IPC file format
	Arrow Format = "arrow"
	// Parquet is Apache Parquet
	Parquet Format = "parquet"
	// Avro is an Avro object container file
	Avro Format = "avro"
)

// ParseFormat maps a format name to a Format
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case CSV, JSON, Arrow, Parquet, Avro:
		return f, nil
	case "ipc", "feather":
		return Arrow, nil
	default:
		return "", errors.Newf(errors.ErrorTypeFormat, "unknown format %q", name)
	}
}

// FormatFromPath infers the format from a file extension. A trailing
// compression suffix such as ".gz" is ignored.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gz", ".zst", ".sz", ".s2", ".lz4", ".deflate":
		return FormatFromPath(strings.TrimSuffix(path, filepath.Ext(path)))
	case ".csv", ".tsv", ".txt":
		return CSV, nil
	case ".json", ".jsonl", ".ndjson":
		return JSON, nil
	case ".arrow", ".ipc", ".feather":
		return Arrow, nil
	case ".parquet", ".pq":
		return Parquet, nil
	case ".avro":
		return Avro, nil
	default:
		return "", errors.Newf(errors.ErrorTypeFormat, "cannot infer format of %q", path).
			WithDetail("extension", ext)
	}
}

// ReadOptions controls how a source is parsed
type ReadOptions struct {
	// Allocator backs the collection; nil uses the default allocator
	Allocator memory.Allocator
	// ChunkSize is the maximum number of rows per chunk
	ChunkSize int
	// Delimiter separates CSV fields
	Delimiter rune
	// Header tells whether the first CSV line holds the column names
	Header bool
	// NullValues are CSV field texts read as NULL
	NullValues []string
	// ColumnTypes pins the arrow type of CSV columns by name instead of
	// inferring it
	ColumnTypes map[string]arrow.DataType
	// Metrics receives read timings; nil disables them
	Metrics *metrics.Collector
}

// DefaultReadOptions returns comma separated input with a header line
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		ChunkSize:  columnar.DefaultChunkSize,
		Delimiter:  ',',
		Header:     true,
		NullValues: []string{"", "NULL"},
	}
}

// Read parses r into a collection and returns it with its column names.
func Read(r io.Reader, format Format, opts ReadOptions) (coll *columnar.Collection, names []string, err error) {
	timer := opts.Metrics.StartTimer(metrics.OpRead)
	defer func() { timer.Stop(err) }()

	switch format {
	case CSV:
		return ReadCSV(r, opts)
	case Arrow:
		return ReadArrow(r, opts)
	case Parquet:
		return ReadParquet(r, opts)
	default:
		return nil, nil, errors.Newf(errors.ErrorTypeFormat, "reading %s is not supported", format)
	}
}

// WriteOptions controls how a result is written
type WriteOptions struct {
	// Compression applies to the output. JSON output is wrapped in a
	// compressed stream; Arrow, Parquet and Avro use their internal codecs.
	Compression compression.Algorithm
	// Level is the compression level of streamed output
	Level compression.Level
	// JSONLines writes one object per line instead of an array
	JSONLines bool
	// Indent pretty prints JSON arrays
	Indent string
	// Allocator is used by writers that build arrow data
	Allocator memory.Allocator
	// Metrics receives write timings; nil disables them
	Metrics *metrics.Collector
}

// Write writes every row of res to w.
func Write(w io.Writer, res *result.MaterializedResult, format Format, opts WriteOptions) (err error) {
	timer := opts.Metrics.StartTimer(metrics.OpWrite)
	defer func() { timer.Stop(err) }()

	switch format {
	case JSON:
		return WriteJSON(w, res, opts)
	case Arrow:
		return WriteArrow(w, res, opts)
	case Parquet:
		return WriteParquet(w, res, opts)
	case Avro:
		return WriteAvro(w, res, opts)
	default:
		return errors.Newf(errors.ErrorTypeFormat, "writing %s is not supported", format)
	}
}

func allocator(mem memory.Allocator) memory.Allocator {
	if mem == nil {
		return memory.DefaultAllocator
	}
	return mem
}

// readAtSeeker is what the Arrow IPC and Parquet file readers need
type readAtSeeker interface {
	io.Reader
	io.ReaderAt
	io.Seeker
}

// seekable returns r itself when it supports random access, otherwise an
// in-memory copy of its content.
func seekable(r io.Reader) (readAtSeeker, error) {
	if rs, ok := r.(readAtSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read input")
	}
	return bytes.NewReader(data), nil
}

// recordSource is the iteration surface shared by the arrow readers
type recordSource interface {
	Next() bool
	Record() arrow.Record
	Err() error
	Schema() *arrow.Schema
}

// collect appends every record of src to a new collection. The collection is
// created from the first record's schema so inferring readers are supported.
func collect(src recordSource, opts ReadOptions) (*columnar.Collection, []string, error) {
	var coll *columnar.Collection
	fail := func(err error) (*columnar.Collection, []string, error) {
		if coll != nil {
			coll.Release()
		}
		return nil, nil, err
	}

	for src.Next() {
		rec := src.Record()
		if coll == nil {
			c, err := columnar.NewCollection(opts.Allocator, rec.Schema(), columnar.WithChunkSize(opts.ChunkSize))
			if err != nil {
				return fail(err)
			}
			coll = c
		}
		if err := coll.Append(rec); err != nil {
			return fail(err)
		}
	}
	if err := src.Err(); err != nil && !stderrors.Is(err, io.EOF) {
		return fail(errors.Wrap(err, errors.ErrorTypeFormat, "failed to read records"))
	}

	if coll == nil {
		schema := src.Schema()
		if schema == nil {
			schema = arrow.NewSchema(nil, nil)
		}
		c, err := columnar.NewCollection(opts.Allocator, schema, columnar.WithChunkSize(opts.ChunkSize))
		if err != nil {
			return nil, nil, err
		}
		coll = c
	}
	return coll, coll.Names(), nil
}

// collectionOf returns the collection of a successful result. Failed results
// cannot be written.
func collectionOf(res *result.MaterializedResult) (*columnar.Collection, error) {
	if res == nil {
		return nil, errors.New(errors.ErrorTypeInvalidOperation, "no result to write")
	}
	if res.HasError() {
		return nil, errors.Wrap(res.Err(), errors.ErrorTypeInvalidOperation, "cannot write an unsuccessful query result")
	}
	return res.Collection()
}

// writerOnly hides any Close method of the wrapped writer so sinks that
// close their destination leave it open
type writerOnly struct{ io.Writer }
