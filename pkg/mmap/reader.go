// Package mmap maps input files read-only so columnar readers can seek in
// them without copying the whole file into the heap first.
package mmap

import (
	"bytes"
	"os"
	"sync"

	"github.com/ajitpratap0/matresult/pkg/errors"
)

// File is a read-only mapping of a whole file
type File struct {
	data   []byte
	mapped bool

	mu     sync.Mutex
	closed bool
}

// Open maps path into memory. Empty files and platforms without mmap fall
// back to an in-heap copy.
func Open(path string) (*File, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from the caller
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open file").WithDetail("path", path)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to stat file").WithDetail("path", path)
	}
	size := stat.Size()
	if size == 0 {
		return &File{data: []byte{}}, nil
	}
	if int64(int(size)) != size {
		return nil, errors.Newf(errors.ErrorTypeFile, "file too large to map: %d bytes", size).
			WithDetail("path", path)
	}

	data, mapped, err := mapFile(f, int(size))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to map file").WithDetail("path", path)
	}
	return &File{data: data, mapped: mapped}, nil
}

// Size returns the file length in bytes
func (m *File) Size() int64 { return int64(len(m.data)) }

// Mapped reports whether the data is backed by a memory mapping
func (m *File) Mapped() bool { return m.mapped }

// Reader returns a seekable reader over the file. It must not be used after
// Close.
func (m *File) Reader() *bytes.Reader {
	return bytes.NewReader(m.data)
}

// Close unmaps the file. Calling it more than once is a no-op.
func (m *File) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	data := m.data
	m.data = nil
	if !m.mapped {
		return nil
	}
	if err := unmapFile(data); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to unmap file")
	}
	return nil
}
