package types

import (
	"math"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/matresult/pkg/errors"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"null", NewNull(TypeInteger), "NULL"},
		{"true", NewBoolean(true), "true"},
		{"false", NewBoolean(false), "false"},
		{"tinyint", NewTinyInt(-8), "-8"},
		{"ubigint", NewUBigInt(math.MaxUint64), "18446744073709551615"},
		{"integral double", NewDouble(2), "2.0"},
		{"double", NewDouble(0.1), "0.1"},
		{"float", NewFloat(1.5), "1.5"},
		{"nan", NewDouble(math.NaN()), "nan"},
		{"inf", NewDouble(math.Inf(1)), "inf"},
		{"negative inf", NewDouble(math.Inf(-1)), "-inf"},
		{"decimal", NewDecimal(decimal.RequireFromString("3.1"), MustDecimalType(5, 2)), "3.10"},
		{"varchar", NewVarchar("hello"), "hello"},
		{"blob", NewBlob([]byte{'a', 0x00, 0xff}), `a\x00\xFF`},
		{"date", NewDate(time.Date(2024, 2, 29, 13, 0, 0, 0, time.UTC)), "2024-02-29"},
		{"date before epoch", NewDateFromDays(-1), "1969-12-31"},
		{"time", NewTime(13*time.Hour + 5*time.Minute + 7*time.Second), "13:05:07"},
		{"time fraction", NewTime(time.Second + 250*time.Millisecond), "00:00:01.25"},
		{"timestamp", NewTimestamp(time.Date(2024, 1, 2, 3, 4, 5, 6000, time.UTC)), "2024-01-02 03:04:05.000006"},
		{"timestamp before epoch", NewTimestampFromMicros(-1), "1969-12-31 23:59:59.999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.String())
		})
	}
}

func TestValueEqual(t *testing.T) {
	assert.True(t, NewInteger(1).Equal(NewInteger(1)))
	assert.False(t, NewInteger(1).Equal(NewBigInt(1)))
	assert.True(t, NewNull(TypeVarchar).Equal(NewNull(TypeVarchar)))
	assert.False(t, NewNull(TypeVarchar).Equal(NewVarchar("")))
	assert.True(t, NewDouble(math.NaN()).Equal(NewDouble(math.NaN())))
	assert.True(t, NewBlob([]byte("ab")).Equal(NewBlob([]byte("ab"))))
}

func TestValueAsInt64(t *testing.T) {
	n, err := NewSmallInt(-12).AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(-12), n)

	_, err = NewUBigInt(math.MaxUint64).AsInt64()
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))

	_, err = NewDouble(1.5).AsInt64()
	assert.True(t, errors.IsType(err, errors.ErrorTypeConversion))

	n, err = NewDouble(4).AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	_, err = NewNull(TypeInteger).AsInt64()
	assert.True(t, errors.IsType(err, errors.ErrorTypeConversion))

	n, err = NewDecimal(decimal.NewFromInt(42), MustDecimalType(10, 2)).AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestBlobOwnsPayload(t *testing.T) {
	raw := []byte("abc")
	v := NewBlob(raw)
	raw[0] = 'z'
	assert.Equal(t, "abc", v.String())

	out := v.Bytes()
	out[0] = 'y'
	assert.Equal(t, "abc", v.String())
}

func TestNarrow(t *testing.T) {
	n8, err := Narrow[int8](NewInteger(12))
	require.NoError(t, err)
	assert.Equal(t, int8(12), n8)

	_, err = Narrow[int8](NewInteger(300))
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))

	_, err = Narrow[uint8](NewInteger(-1))
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))

	_, err = Narrow[uint64](NewBigInt(-1))
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))

	_, err = Narrow[int64](NewUBigInt(math.MaxUint64))
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))

	u, err := Narrow[uint64](NewUBigInt(math.MaxUint64))
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), u)

	_, err = Narrow[int32](NewDouble(0.5))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConversion))

	_, err = Narrow[int32](NewNull(TypeInteger))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConversion))
}

// narrowAll narrows every value to T, stopping at the first error
func narrowAll[T Integral](vals ...Value) ([]T, error) {
	out := make([]T, 0, len(vals))
	for _, v := range vals {
		n, err := Narrow[T](v)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func TestNarrowIntegerColumn(t *testing.T) {
	vals := []Value{NewInteger(1), NewInteger(-2), NewInteger(127)}
	for _, v := range vals {
		require.Equal(t, Integer, v.Type().ID)
	}
	assert.Equal(t, "INTEGER", Integer.String())

	got, err := narrowAll[int8](vals...)
	require.NoError(t, err)
	assert.Equal(t, []int8{1, -2, 127}, got)

	_, err = narrowAll[uint16](vals...)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))
}

func TestArrowRoundTrip(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	dec := MustDecimalType(10, 3)
	tests := []struct {
		name  string
		typ   LogicalType
		value Value
	}{
		{"boolean", TypeBoolean, NewBoolean(true)},
		{"tinyint", TypeTinyInt, NewTinyInt(-3)},
		{"usmallint", TypeUSmallInt, NewUSmallInt(65535)},
		{"bigint", TypeBigInt, NewBigInt(math.MinInt64)},
		{"ubigint", TypeUBigInt, NewUBigInt(math.MaxUint64)},
		{"double", TypeDouble, NewDouble(-2.25)},
		{"decimal", dec, NewDecimal(decimal.RequireFromString("-12.345"), dec)},
		{"varchar", TypeVarchar, NewVarchar("a\x00b")},
		{"blob", TypeBlob, NewBlob([]byte{1, 2, 3})},
		{"date", TypeDate, NewDateFromDays(19000)},
		{"time", TypeTime, NewTime(90 * time.Minute)},
		{"timestamp", TypeTimestamp, NewTimestampFromMicros(1_700_000_000_123_456)},
		{"null", TypeInteger, NewNull(TypeInteger)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, err := tt.typ.ToArrow()
			require.NoError(t, err)

			b := array.NewBuilder(mem, dt)
			defer b.Release()
			require.NoError(t, AppendValue(b, tt.value))

			arr := b.NewArray()
			defer arr.Release()

			back, err := FromArrow(arr.DataType())
			require.NoError(t, err)
			assert.Equal(t, tt.typ, back)

			got := ValueAt(arr, 0, back)
			assert.True(t, tt.value.Equal(got), "want %s, got %s", tt.value, got)
		})
	}
}

func TestValueAtCopiesStrings(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	b := array.NewStringBuilder(mem)
	b.Append("payload")
	arr := b.NewArray()
	b.Release()

	v := ValueAt(arr, 0, TypeVarchar)
	arr.Release()

	assert.Equal(t, "payload", v.String())
}

func TestValueAtConvertsUnits(t *testing.T) {
	mem := memory.NewGoAllocator()

	b := array.NewTimestampBuilder(mem, &arrow.TimestampType{Unit: arrow.Millisecond})
	defer b.Release()
	b.Append(arrow.Timestamp(1500))
	arr := b.NewArray()
	defer arr.Release()

	lt, err := FromArrow(arr.DataType())
	require.NoError(t, err)
	assert.Equal(t, "1970-01-01 00:00:01.5", ValueAt(arr, 0, lt).String())
}

func TestAppendValueRange(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := array.NewInt8Builder(mem)
	defer b.Release()

	err := AppendValue(b, NewInteger(1000))
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))

	dt := &arrow.Decimal128Type{Precision: 3, Scale: 1}
	db := array.NewDecimal128Builder(mem, dt)
	defer db.Release()
	err = AppendValue(db, NewDouble(1234.5))
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))
}

func TestFromArrowUnsupported(t *testing.T) {
	_, err := FromArrow(arrow.ListOf(arrow.PrimitiveTypes.Int32))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConversion))
}

func TestNewDecimalType(t *testing.T) {
	_, err := NewDecimalType(0, 0)
	assert.Error(t, err)
	_, err = NewDecimalType(39, 0)
	assert.Error(t, err)
	_, err = NewDecimalType(4, 5)
	assert.Error(t, err)

	dt, err := NewDecimalType(18, 3)
	require.NoError(t, err)
	assert.Equal(t, "DECIMAL(18,3)", dt.String())
}
