package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolStats(t *testing.T) {
	resets := 0
	p := New(
		func() *bytes.Buffer { return new(bytes.Buffer) },
		func(b *bytes.Buffer) {
			resets++
			b.Reset()
		},
	)

	b := p.Get()
	b.WriteString("x")
	_, inUse, gets := p.Stats()
	assert.Equal(t, int64(1), inUse)
	assert.Equal(t, int64(1), gets)

	p.Put(b)
	allocated, inUse, _ := p.Stats()
	assert.Equal(t, int64(1), allocated)
	assert.Equal(t, int64(0), inUse)
	assert.Equal(t, 1, resets)
	assert.Equal(t, 0, b.Len())
}

func TestStringSlicePoolReset(t *testing.T) {
	s := StringSlicePool.Get()
	s.Items = append(s.Items, "a", "b")
	StringSlicePool.Put(s)
	assert.Empty(t, s.Items)
}

func TestPutBufferDropsLargeBuffers(t *testing.T) {
	buf := GetBuffer()
	buf.Grow(maxPooledBuffer + 1)
	_, before, _ := bufferPool.Stats()
	PutBuffer(buf)
	_, after, _ := bufferPool.Stats()
	assert.Equal(t, before-1, after)
}
