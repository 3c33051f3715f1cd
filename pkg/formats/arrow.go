package formats

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"

	"github.com/ajitpratap0/matresult/pkg/columnar"
	"github.com/ajitpratap0/matresult/pkg/compression"
	"github.com/ajitpratap0/matresult/pkg/errors"
	"github.com/ajitpratap0/matresult/pkg/result"
)

// ipcSource iterates the record batches of an Arrow IPC file
type ipcSource struct {
	fr  *ipc.FileReader
	i   int
	rec arrow.Record
	err error
}

func (s *ipcSource) Next() bool {
	if s.i >= s.fr.NumRecords() {
		return false
	}
	s.rec, s.err = s.fr.Record(s.i)
	s.i++
	return s.err == nil
}

func (s *ipcSource) Record() arrow.Record  { return s.rec }
func (s *ipcSource) Err() error            { return s.err }
func (s *ipcSource) Schema() *arrow.Schema { return s.fr.Schema() }

// ReadArrow reads an Arrow IPC file. Readers without random access are
// buffered in memory first.
func ReadArrow(r io.Reader, opts ReadOptions) (*columnar.Collection, []string, error) {
	rs, err := seekable(r)
	if err != nil {
		return nil, nil, err
	}

	fr, err := ipc.NewFileReader(rs, ipc.WithAllocator(allocator(opts.Allocator)))
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to open Arrow file")
	}
	defer fr.Close()

	return collect(&ipcSource{fr: fr}, opts)
}

// WriteArrow writes the result as an Arrow IPC file, one record batch per
// chunk. Zstd and LZ4 compress the record bodies.
func WriteArrow(w io.Writer, res *result.MaterializedResult, opts WriteOptions) error {
	coll, err := collectionOf(res)
	if err != nil {
		return err
	}

	ipcOpts := []ipc.Option{
		ipc.WithSchema(coll.Schema()),
		ipc.WithAllocator(allocator(opts.Allocator)),
	}
	switch opts.Compression {
	case compression.None, "":
	case compression.Zstd:
		ipcOpts = append(ipcOpts, ipc.WithZstd())
	case compression.LZ4:
		ipcOpts = append(ipcOpts, ipc.WithLZ4())
	default:
		return errors.Newf(errors.ErrorTypeConfig, "arrow output does not support %s compression", opts.Compression)
	}

	fw, err := ipc.NewFileWriter(writerOnly{w}, ipcOpts...)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFormat, "failed to create Arrow writer")
	}
	for i := 0; i < coll.ChunkCount(); i++ {
		if err := fw.Write(coll.Chunk(i)); err != nil {
			_ = fw.Close()
			return errors.Wrap(err, errors.ErrorTypeFormat, "failed to write record batch").
				WithDetail("chunk", i)
		}
	}
	if err := fw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFormat, "failed to close Arrow writer")
	}
	return nil
}
