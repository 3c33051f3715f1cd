package render

import (
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/matresult/pkg/columnar"
	"github.com/ajitpratap0/matresult/pkg/errors"
	"github.com/ajitpratap0/matresult/pkg/types"
)

func scenarioCollection(t *testing.T) *columnar.Collection {
	t.Helper()
	b, err := columnar.NewBuilder(memory.NewGoAllocator(), []string{"a", "b"},
		[]types.LogicalType{types.TypeInteger, types.TypeVarchar})
	require.NoError(t, err)
	require.NoError(t, b.AppendRow(types.NewInteger(1), types.NewVarchar("x")))
	require.NoError(t, b.AppendRow(types.NewNull(types.TypeInteger), types.NewVarchar("y")))
	coll, err := b.Build()
	require.NoError(t, err)
	t.Cleanup(coll.Release)
	return coll
}

func sequenceCollection(t *testing.T, columns, rows int) (*columnar.Collection, []string) {
	t.Helper()
	names := make([]string, columns)
	lts := make([]types.LogicalType, columns)
	for j := range names {
		names[j] = "c" + string(rune('0'+j))
		lts[j] = types.TypeBigInt
	}
	b, err := columnar.NewBuilder(memory.NewGoAllocator(), names, lts, columnar.WithChunkSize(3))
	require.NoError(t, err)
	for i := 0; i < rows; i++ {
		row := make([]types.Value, columns)
		for j := range row {
			row[j] = types.NewBigInt(int64(i))
		}
		require.NoError(t, b.AppendRow(row...))
	}
	coll, err := b.Build()
	require.NoError(t, err)
	t.Cleanup(coll.Release)
	return coll, names
}

func TestRenderBox(t *testing.T) {
	coll := scenarioCollection(t)
	cfg := DefaultConfig()
	cfg.ShowTypes = false

	out, err := NewBoxRenderer(cfg).Render(Context{Logger: zaptest.NewLogger(t)}, []string{"a", "b"}, coll)
	require.NoError(t, err)

	want := strings.Join([]string{
		"┌──────┬───┐",
		"│  a   │ b │",
		"├──────┼───┤",
		"│    1 │ x │",
		"│ NULL │ y │",
		"└──────┴───┘",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestRenderTypesAndBorders(t *testing.T) {
	coll := scenarioCollection(t)

	tests := []struct {
		name      string
		border    BorderStyle
		firstLine string
	}{
		{"normal", BorderNormal, "┌"},
		{"rounded", BorderRounded, "╭"},
		{"ascii", BorderASCII, "+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Border = tt.border
			out, err := NewBoxRenderer(cfg).Render(Context{}, []string{"a", "b"}, coll)
			require.NoError(t, err)

			lines := strings.Split(out, "\n")
			assert.True(t, strings.HasPrefix(lines[0], tt.firstLine), lines[0])
			assert.Contains(t, lines[2], "INTEGER")
			assert.Contains(t, lines[2], "VARCHAR")
		})
	}
}

func TestRenderASCIIBorder(t *testing.T) {
	coll := scenarioCollection(t)
	cfg := DefaultConfig()
	cfg.ShowTypes = false
	cfg.Border = BorderASCII

	out, err := NewBoxRenderer(cfg).Render(Context{}, []string{"a", "b"}, coll)
	require.NoError(t, err)

	want := strings.Join([]string{
		"+------+---+",
		"|  a   | b |",
		"+------+---+",
		"|    1 | x |",
		"| NULL | y |",
		"+------+---+",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestRenderElidesRows(t *testing.T) {
	coll, names := sequenceCollection(t, 1, 10)
	cfg := DefaultConfig()
	cfg.MaxRows = 4
	cfg.ShowTypes = false

	out, err := NewBoxRenderer(cfg).Render(Context{}, names, coll)
	require.NoError(t, err)

	assert.Contains(t, out, "│ ·  │")
	assert.Contains(t, out, "│  1 │")
	assert.Contains(t, out, "│  9 │")
	assert.NotContains(t, out, "│  5 │")
	assert.True(t, strings.HasSuffix(out, "10 rows (4 shown)\n"), out)
}

func TestRenderElidesColumns(t *testing.T) {
	coll, names := sequenceCollection(t, 6, 1)
	cfg := DefaultConfig()
	cfg.ShowTypes = false

	out, err := NewBoxRenderer(cfg).Render(Context{TerminalWidth: 20}, names, coll)
	require.NoError(t, err)

	header := strings.Split(out, "\n")[1]
	assert.Equal(t, "│ c0 │ c1 │ … │ c5 │", header)
	assert.Contains(t, out, "6 columns (3 shown)")
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 20)
	}

	// an explicit MaxWidth wins over the terminal width
	cfg.MaxWidth = 100
	out, err = NewBoxRenderer(cfg).Render(Context{TerminalWidth: 20}, names, coll)
	require.NoError(t, err)
	assert.Contains(t, out, "c3")
	assert.NotContains(t, out, "columns (")
}

func TestRenderTruncatesCells(t *testing.T) {
	b, err := columnar.NewBuilder(nil, []string{"s"}, []types.LogicalType{types.TypeVarchar})
	require.NoError(t, err)
	require.NoError(t, b.AppendRow(types.NewVarchar("abcdefgh")))
	require.NoError(t, b.AppendRow(types.NewVarchar("line\nbreak")))
	require.NoError(t, b.AppendRow(types.NewNull(types.TypeVarchar)))
	coll, err := b.Build()
	require.NoError(t, err)
	defer coll.Release()

	cfg := DefaultConfig()
	cfg.MaxColumnWidth = 5
	cfg.NullValue = "∅"
	out, err := NewBoxRenderer(cfg).Render(Context{}, []string{"s"}, coll)
	require.NoError(t, err)

	assert.Contains(t, out, "abcd…")
	assert.Contains(t, out, `line…`)
	assert.Contains(t, out, "∅")
	assert.NotContains(t, out, "abcde")
}

func TestRenderErrors(t *testing.T) {
	coll := scenarioCollection(t)
	_, err := NewBoxRenderer(DefaultConfig()).Render(Context{}, []string{"a"}, coll)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	coll.Release()
	_, err = NewBoxRenderer(DefaultConfig()).Render(Context{}, []string{"a", "b"}, coll)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidOperation))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.MaxRows = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Border = "double"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MaxColumnWidth = 1
	assert.Error(t, cfg.Validate())
}
