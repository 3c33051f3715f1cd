package variant

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/matresult/pkg/json"
	"github.com/ajitpratap0/matresult/pkg/types"
)

func TestFromValue(t *testing.T) {
	tests := []struct {
		name  string
		value types.Value
		want  Variant
	}{
		{"boolean", types.NewBoolean(true), FromBool(true)},
		{"tinyint", types.NewTinyInt(-5), FromInt32(-5)},
		{"smallint", types.NewSmallInt(300), FromInt32(300)},
		{"integer", types.NewInteger(math.MinInt32), FromInt32(math.MinInt32)},
		{"utinyint", types.NewUTinyInt(255), FromInt32(255)},
		{"usmallint", types.NewUSmallInt(65535), FromInt32(65535)},
		{"bigint", types.NewBigInt(math.MaxInt64), FromInt64(math.MaxInt64)},
		{"uinteger", types.NewUInteger(math.MaxUint32), FromUInt32(math.MaxUint32)},
		{"ubigint", types.NewUBigInt(math.MaxUint64), FromUInt64(math.MaxUint64)},
		{"float", types.NewFloat(0.5), FromDouble(0.5)},
		{"double", types.NewDouble(-1.25), FromDouble(-1.25)},
		{"decimal", types.NewDecimal(decimal.RequireFromString("12.50"), types.MustDecimalType(6, 2)), FromDouble(12.5)},
		{"varchar", types.NewVarchar("x"), FromString("x")},
		{"blob falls back to text", types.NewBlob([]byte{0x01}), FromString(`\x01`)},
		{"date falls back to text", types.NewDateFromDays(0), FromString("1970-01-01")},
		{"time falls back to text", types.NewTime(time.Hour), FromString("01:00:00")},
		{"null integer", types.NewNull(types.TypeInteger), Null()},
		{"null varchar", types.NewNull(types.TypeVarchar), Null()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromValue(tt.value)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			if !tt.value.IsNull() {
				assert.Equal(t, KindOf(tt.value.Type()), got.Kind())
			}
		})
	}
}

func TestNullIsNeverZero(t *testing.T) {
	v := FromValue(types.NewNull(types.TypeBigInt))
	assert.True(t, v.IsAbsent())
	assert.False(t, v.Equal(FromInt64(0)))
	assert.Nil(t, v.Interface())

	_, ok := v.Int64()
	assert.False(t, ok)
}

func TestAccessors(t *testing.T) {
	n, ok := FromInt32(-7).Int32()
	assert.True(t, ok)
	assert.Equal(t, int32(-7), n)

	_, ok = FromInt32(-7).Int64()
	assert.False(t, ok)

	s, ok := FromString("hi").Str()
	assert.True(t, ok)
	assert.Equal(t, "hi", s)

	f, ok := FromDouble(2.5).Double()
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)

	assert.Equal(t, uint64(math.MaxUint64), FromUInt64(math.MaxUint64).Interface())
	assert.True(t, FromDouble(math.NaN()).Equal(FromDouble(math.NaN())))
}

func TestString(t *testing.T) {
	assert.Equal(t, "Int32(1)", FromInt32(1).String())
	assert.Equal(t, `String("x")`, FromString("x").String())
	assert.Equal(t, "Absent", Null().String())
	assert.Equal(t, "Double(0.5)", FromDouble(0.5).String())
	assert.Equal(t, "Bool(true)", FromBool(true).String())
	assert.Equal(t, "UInt64(18446744073709551615)", FromUInt64(math.MaxUint64).String())
}

func TestMarshalJSON(t *testing.T) {
	row := []Variant{
		FromInt32(1),
		Null(),
		FromString("a\"b"),
		FromUInt64(math.MaxUint64),
		FromDouble(math.Inf(-1)),
		FromDouble(0.1),
		FromBool(false),
	}
	out, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `[1,null,"a\"b",18446744073709551615,"-inf",0.1,false]`, string(out))
}

func TestRow(t *testing.T) {
	obj := Row([]string{"a", "b"}, []Variant{FromInt32(1), Null()})
	out, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":null}`, string(out))

	obj = Row([]string{"z", "a", "m"}, []Variant{FromString("q\""), FromDouble(1.5), FromBool(true)})
	out, err = json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"q\"","a":1.5,"m":true}`, string(out))
}
