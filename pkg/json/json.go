// Package json wraps goccy/go-json with the encoder settings used for result
// export: no HTML escaping, streaming output as a JSON array or as JSON lines.
package json

import (
	"bytes"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/matresult/pkg/pool"
)

// Marshal is a drop-in replacement for encoding/json.Marshal
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal is a drop-in replacement for encoding/json.Unmarshal
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// MarshalIndent is a drop-in replacement for encoding/json.MarshalIndent
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}

// StreamingEncoder writes a sequence of values either as one JSON array or as
// newline-delimited JSON.
type StreamingEncoder struct {
	w       io.Writer
	buf     *bytes.Buffer
	enc     *gojson.Encoder
	isArray bool
	pretty  bool
	count   int
}

// NewStreamingEncoder creates an encoder writing to w. Values are buffered per
// Encode call and flushed to w immediately.
func NewStreamingEncoder(w io.Writer, isArray bool) *StreamingEncoder {
	buf := pool.GetBuffer()
	enc := gojson.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &StreamingEncoder{w: w, buf: buf, enc: enc, isArray: isArray}
}

// SetIndent enables pretty printing with the given indent
func (se *StreamingEncoder) SetIndent(indent string) {
	se.pretty = indent != ""
	se.enc.SetIndent("", indent)
}

// Encode writes one value
func (se *StreamingEncoder) Encode(v interface{}) error {
	se.buf.Reset()
	if se.isArray {
		switch {
		case se.count == 0:
			se.buf.WriteByte('[')
		default:
			se.buf.WriteByte(',')
		}
		if se.pretty {
			se.buf.WriteByte('\n')
		}
	}
	if err := se.enc.Encode(v); err != nil {
		return err
	}
	if se.isArray {
		// Encode terminates every value with a newline
		se.buf.Truncate(se.buf.Len() - 1)
	}
	se.count++
	_, err := se.w.Write(se.buf.Bytes())
	return err
}

// Count returns the number of values written
func (se *StreamingEncoder) Count() int {
	return se.count
}

// Close terminates the array, if any, and releases the encoder's buffer
func (se *StreamingEncoder) Close() error {
	defer func() {
		if se.buf != nil {
			pool.PutBuffer(se.buf)
			se.buf = nil
		}
	}()
	if !se.isArray {
		return nil
	}
	tail := "]\n"
	switch {
	case se.count == 0:
		tail = "[]\n"
	case se.pretty:
		tail = "\n]\n"
	}
	_, err := io.WriteString(se.w, tail)
	return err
}
