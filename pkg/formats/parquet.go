package formats

import (
	"context"
	"io"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/ajitpratap0/matresult/pkg/columnar"
	"github.com/ajitpratap0/matresult/pkg/compression"
	"github.com/ajitpratap0/matresult/pkg/errors"
	"github.com/ajitpratap0/matresult/pkg/result"
)

// ReadParquet reads a Parquet file. Record batches follow the chunk size.
func ReadParquet(r io.Reader, opts ReadOptions) (*columnar.Collection, []string, error) {
	rs, err := seekable(r)
	if err != nil {
		return nil, nil, err
	}

	pf, err := file.NewParquetReader(rs)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to open Parquet file")
	}
	defer pf.Close()

	batch := opts.ChunkSize
	if batch <= 0 {
		batch = columnar.DefaultChunkSize
	}
	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{BatchSize: int64(batch)}, allocator(opts.Allocator))
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to map Parquet schema")
	}

	rr, err := fr.GetRecordReader(context.Background(), nil, nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to read Parquet row groups")
	}
	defer rr.Release()

	return collect(rr, opts)
}

// WriteParquet writes the result as a Parquet file with one row group per
// chunk.
func WriteParquet(w io.Writer, res *result.MaterializedResult, opts WriteOptions) error {
	coll, err := collectionOf(res)
	if err != nil {
		return err
	}

	codec, err := parquetCodec(opts.Compression)
	if err != nil {
		return err
	}
	props := parquet.NewWriterProperties(
		parquet.WithCompression(codec),
		parquet.WithDictionaryDefault(true),
		parquet.WithAllocator(allocator(opts.Allocator)),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithStoreSchema(),
		pqarrow.WithAllocator(allocator(opts.Allocator)),
	)

	fw, err := pqarrow.NewFileWriter(coll.Schema(), writerOnly{w}, props, arrowProps)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFormat, "failed to create Parquet writer")
	}
	for i := 0; i < coll.ChunkCount(); i++ {
		if err := fw.Write(coll.Chunk(i)); err != nil {
			_ = fw.Close()
			return errors.Wrap(err, errors.ErrorTypeFormat, "failed to write row group").
				WithDetail("chunk", i)
		}
	}
	if err := fw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFormat, "failed to close Parquet writer")
	}
	return nil
}

func parquetCodec(algo compression.Algorithm) (compress.Compression, error) {
	switch algo {
	case compression.None, "":
		return compress.Codecs.Uncompressed, nil
	case compression.Snappy:
		return compress.Codecs.Snappy, nil
	case compression.Gzip:
		return compress.Codecs.Gzip, nil
	case compression.Zstd:
		return compress.Codecs.Zstd, nil
	case compression.LZ4:
		return compress.Codecs.Lz4Raw, nil
	default:
		return compress.Codecs.Uncompressed, errors.Newf(errors.ErrorTypeConfig,
			"parquet output does not support %s compression", algo)
	}
}
