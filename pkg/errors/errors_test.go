package errors

import (
	stderrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCapturesStack(t *testing.T) {
	err := New(ErrorTypeInternal, "missing collection")

	require.NotEmpty(t, err.Stack)
	assert.Contains(t, err.Stack[0].Function, "TestNewCapturesStack")
	assert.Equal(t, "internal: missing collection", err.Error())
}

func TestWrapPreservesStackAndCause(t *testing.T) {
	inner := New(ErrorTypeConversion, "bad value")
	outer := Wrap(inner, ErrorTypeFormat, "decode failed")

	assert.Equal(t, inner.Stack, outer.Stack)
	assert.True(t, stderrors.Is(outer, inner))
	assert.True(t, IsType(outer, ErrorTypeFormat))
	assert.False(t, IsType(outer, ErrorTypeConversion))

	var target *Error
	require.True(t, stderrors.As(outer.Unwrap(), &target))
	assert.Equal(t, ErrorTypeConversion, target.Type)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeFile, "unused"))
}

func TestWrapForeignError(t *testing.T) {
	err := Wrap(io.ErrUnexpectedEOF, ErrorTypeFile, "short read")

	assert.NotEmpty(t, err.Stack)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeInvalidOperation, "row out of range").
		WithDetail("row", 7).
		WithDetail("row_count", 2)

	assert.Equal(t, 7, err.Details["row"])
	assert.Equal(t, 2, err.Details["row_count"])
}

func TestIsTypeOnForeignError(t *testing.T) {
	assert.False(t, IsType(io.EOF, ErrorTypeFile))
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ""},
		{"foreign", io.EOF, ""},
		{"direct", New(ErrorTypeOutOfRange, "overflow"), ErrorTypeOutOfRange},
		{"outermost wins", Wrap(New(ErrorTypeConversion, "bad"), ErrorTypeFormat, "decode"), ErrorTypeFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
		})
	}
}
