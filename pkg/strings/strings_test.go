package strings

import (
	"testing"
)

func TestBuilderStringView(t *testing.T) {
	b := NewBuilder(0)
	if got := b.String(); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
	b.WriteString("hello")
	view := b.String()
	owned := Clone(view)
	b.Reset()
	b.WriteString("HELLO")
	if owned != "hello" {
		t.Errorf("cloned string changed with the builder: %q", owned)
	}
}

func TestBuilder(t *testing.T) {
	builder := NewBuilder(4)
	builder.WriteString("ab")
	_ = builder.WriteByte('\t')
	builder.WriteRepeat("-", 3)
	builder.WriteRepeat("x", -1)
	_, _ = builder.Write([]byte("z"))

	if got := builder.String(); got != "ab\t---z" {
		t.Errorf("unexpected builder content %q", got)
	}
	if builder.Len() != 7 {
		t.Errorf("expected length 7, got %d", builder.Len())
	}

	builder.Reset()
	if builder.Len() != 0 {
		t.Errorf("expected empty builder after reset")
	}
}

func TestPooledBuilders(t *testing.T) {
	for _, size := range []BuilderSize{Small, Medium, Large, BuilderSize(42)} {
		b := GetBuilder(size)
		if b.Len() != 0 {
			t.Fatalf("pooled builder for size %d not reset", size)
		}
		b.WriteString("data")
		PutBuilder(b, size)
	}
	PutBuilder(nil, Small)
}

func TestSizeFor(t *testing.T) {
	tests := []struct {
		n    int
		want BuilderSize
	}{
		{0, Small},
		{1024, Small},
		{1025, Medium},
		{16 * 1024, Medium},
		{16*1024 + 1, Large},
	}
	for _, tt := range tests {
		if got := SizeFor(tt.n); got != tt.want {
			t.Errorf("SizeFor(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestSprintf(t *testing.T) {
	if got := Sprintf("plain"); got != "plain" {
		t.Errorf("expected format passthrough, got %q", got)
	}
	if got := Sprintf("column %d of %s", 3, "t"); got != "column 3 of t" {
		t.Errorf("unexpected Sprintf result %q", got)
	}
}

func TestEscapeNUL(t *testing.T) {
	if got := EscapeNUL("plain"); got != "plain" {
		t.Errorf("unexpected escape of plain text: %q", got)
	}
	if got := EscapeNUL("a\x00b"); got != `a\0b` {
		t.Errorf("expected escaped NUL, got %q", got)
	}
}
