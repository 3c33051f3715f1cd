// Package pool provides typed object pooling for the rendering and export
// paths, where per-row scratch slices and byte buffers would otherwise be
// allocated once per cell or row.
//
// Example usage:
//
//	row := pool.StringSlicePool.Get()
//	defer pool.StringSlicePool.Put(row)
//
//	buf := pool.GetBuffer()
//	defer pool.PutBuffer(buf)
package pool

import (
	"bytes"
	"sync"
	"sync/atomic"
)

// Pool is a type-safe wrapper over sync.Pool that resets objects on Put and
// keeps allocation statistics. It is safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
		gets      int64
	}
}

// New creates a pool. reset, when not nil, runs before an object goes back
// into the pool.
func New[T any](new func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		return new()
	}
	return p
}

// Get takes an object from the pool, allocating one if the pool is empty
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.gets, 1)
	atomic.AddInt64(&p.stats.inUse, 1)
	return p.pool.Get().(T)
}

// Put resets obj and returns it to the pool
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats returns the number of objects allocated, currently checked out, and
// the number of Get calls. gets - allocated is the number of reuses.
func (p *Pool[T]) Stats() (allocated, inUse, gets int64) {
	return atomic.LoadInt64(&p.stats.allocated),
		atomic.LoadInt64(&p.stats.inUse),
		atomic.LoadInt64(&p.stats.gets)
}

// StringSlice is a reusable slice of cell texts
type StringSlice struct {
	Items []string
}

const maxPooledBuffer = 1 << 20

var (
	// StringSlicePool pools per-row scratch slices for renderers
	StringSlicePool = New(
		func() *StringSlice { return &StringSlice{Items: make([]string, 0, 16)} },
		func(s *StringSlice) {
			clear(s.Items)
			s.Items = s.Items[:0]
		},
	)

	bufferPool = New(
		func() *bytes.Buffer { return bytes.NewBuffer(make([]byte, 0, 4096)) },
		func(b *bytes.Buffer) { b.Reset() },
	)
)

// GetBuffer returns an empty pooled buffer
func GetBuffer() *bytes.Buffer {
	return bufferPool.Get()
}

// PutBuffer returns buf to the pool. Buffers that grew past 1 MiB are dropped.
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer {
		atomic.AddInt64(&bufferPool.stats.inUse, -1)
		return
	}
	bufferPool.Put(buf)
}
