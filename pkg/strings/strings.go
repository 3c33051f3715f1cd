// Package strings provides pooled string building used by the result renderers
package strings

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/ajitpratap0/matresult/pkg/pool"
)

// Builder appends text to a reusable byte buffer. Unlike strings.Builder it
// can be reset and returned to a pool, so String returns a view that is only
// valid until the next write or Reset.
type Builder struct {
	buf []byte
}

// NewBuilder returns a builder with room for capacity bytes
func NewBuilder(capacity int) *Builder {
	return &Builder{buf: make([]byte, 0, capacity)}
}

// WriteString appends s
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// WriteByte appends c. It never fails.
func (b *Builder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// WriteRepeat appends s n times. Non-positive n writes nothing.
func (b *Builder) WriteRepeat(s string, n int) {
	for ; n > 0; n-- {
		b.buf = append(b.buf, s...)
	}
}

// Write implements io.Writer so the builder can back fmt.Fprintf
func (b *Builder) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns a view of the accumulated bytes without copying
func (b *Builder) String() string {
	if len(b.buf) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b.buf), len(b.buf))
}

// Len returns the number of bytes written
func (b *Builder) Len() int { return len(b.buf) }

// Reset empties the builder and keeps its capacity
func (b *Builder) Reset() { b.buf = b.buf[:0] }

// BuilderSize is the capacity class a pooled builder comes from
type BuilderSize int

const (
	Small  BuilderSize = iota // a header line or a short table
	Medium                    // a page of rendered rows
	Large                     // full text dumps of large results
)

var classCapacity = [...]int{
	Small:  1 << 10,
	Medium: 16 << 10,
	Large:  64 << 10,
}

var builders = [...]*pool.Pool[*Builder]{
	Small:  newBuilderPool(Small),
	Medium: newBuilderPool(Medium),
	Large:  newBuilderPool(Large),
}

func newBuilderPool(size BuilderSize) *pool.Pool[*Builder] {
	return pool.New(
		func() *Builder { return NewBuilder(classCapacity[size]) },
		(*Builder).Reset,
	)
}

// SizeFor picks the capacity class for an estimated output length
func SizeFor(estimated int) BuilderSize {
	switch {
	case estimated > classCapacity[Medium]:
		return Large
	case estimated > classCapacity[Small]:
		return Medium
	default:
		return Small
	}
}

func normalize(size BuilderSize) BuilderSize {
	if size < Small || size > Large {
		return Small
	}
	return size
}

// GetBuilder takes an empty builder from the pool for size
func GetBuilder(size BuilderSize) *Builder {
	b := builders[normalize(size)].Get()
	b.Reset()
	return b
}

// PutBuilder returns b to the pool for size. A nil builder is ignored.
func PutBuilder(b *Builder, size BuilderSize) {
	if b == nil {
		return
	}
	builders[normalize(size)].Put(b)
}

// Clone copies s into memory it owns, detaching it from a builder view
func Clone(s string) string {
	return strings.Clone(s)
}

// Sprintf formats into a pooled builder. With no arguments the format is
// returned unchanged.
func Sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}

	size := SizeFor(len(format) + len(args)*16)
	b := GetBuilder(size)
	defer PutBuilder(b, size)

	fmt.Fprintf(b, format, args...)
	return Clone(b.String())
}

// EscapeNUL replaces embedded NUL bytes with the two characters `\0`
func EscapeNUL(s string) string {
	if strings.IndexByte(s, 0) < 0 {
		return s
	}
	return strings.ReplaceAll(s, "\x00", `\0`)
}
