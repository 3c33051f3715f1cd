package types

import (
	"bytes"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/shopspring/decimal"

	"github.com/ajitpratap0/matresult/pkg/errors"
)

// ValueAt reads row i of arr as a Value of logical type lt. The returned
// Value never aliases arrow memory.
func ValueAt(arr arrow.Array, i int, lt LogicalType) Value {
	if arr.IsNull(i) {
		return NewNull(lt)
	}

	switch a := arr.(type) {
	case *array.Boolean:
		return NewBoolean(a.Value(i))
	case *array.Int8:
		return NewTinyInt(a.Value(i))
	case *array.Int16:
		return NewSmallInt(a.Value(i))
	case *array.Int32:
		return NewInteger(a.Value(i))
	case *array.Int64:
		return NewBigInt(a.Value(i))
	case *array.Uint8:
		return NewUTinyInt(a.Value(i))
	case *array.Uint16:
		return NewUSmallInt(a.Value(i))
	case *array.Uint32:
		return NewUInteger(a.Value(i))
	case *array.Uint64:
		return NewUBigInt(a.Value(i))
	case *array.Float32:
		return NewFloat(a.Value(i))
	case *array.Float64:
		return NewDouble(a.Value(i))
	case *array.Decimal128:
		dt := a.DataType().(*arrow.Decimal128Type)
		d := decimal.NewFromBigInt(a.Value(i).BigInt(), -dt.Scale)
		return Value{typ: lt, d: d}
	case *array.String:
		return NewVarchar(strings.Clone(a.Value(i)))
	case *array.LargeString:
		return NewVarchar(strings.Clone(a.Value(i)))
	case *array.Binary:
		return Value{typ: TypeBlob, b: bytes.Clone(a.Value(i))}
	case *array.LargeBinary:
		return Value{typ: TypeBlob, b: bytes.Clone(a.Value(i))}
	case *array.Date32:
		return NewDateFromDays(int64(a.Value(i)))
	case *array.Date64:
		ms := int64(a.Value(i))
		return NewDateFromDays((ms - floorMod(ms, 86_400_000)) / 86_400_000)
	case *array.Time32:
		unit := a.DataType().(*arrow.Time32Type).Unit
		return Value{typ: TypeTime, i: toMicros(int64(a.Value(i)), unit)}
	case *array.Time64:
		unit := a.DataType().(*arrow.Time64Type).Unit
		return Value{typ: TypeTime, i: toMicros(int64(a.Value(i)), unit)}
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return NewTimestampFromMicros(toMicros(int64(a.Value(i)), unit))
	default:
		// unreachable for columns accepted by FromArrow
		return NewVarchar(arr.ValueStr(i))
	}
}

// AppendValue appends v to an arrow builder of the matching physical type.
// NULL values append a null regardless of type.
func AppendValue(b array.Builder, v Value) error {
	if v.isNull {
		b.AppendNull()
		return nil
	}

	switch bb := b.(type) {
	case *array.BooleanBuilder:
		bb.Append(v.Bool())
	case *array.Int8Builder:
		n, err := Narrow[int8](v)
		if err != nil {
			return err
		}
		bb.Append(n)
	case *array.Int16Builder:
		n, err := Narrow[int16](v)
		if err != nil {
			return err
		}
		bb.Append(n)
	case *array.Int32Builder:
		n, err := Narrow[int32](v)
		if err != nil {
			return err
		}
		bb.Append(n)
	case *array.Int64Builder:
		n, err := v.AsInt64()
		if err != nil {
			return err
		}
		bb.Append(n)
	case *array.Uint8Builder:
		n, err := Narrow[uint8](v)
		if err != nil {
			return err
		}
		bb.Append(n)
	case *array.Uint16Builder:
		n, err := Narrow[uint16](v)
		if err != nil {
			return err
		}
		bb.Append(n)
	case *array.Uint32Builder:
		n, err := Narrow[uint32](v)
		if err != nil {
			return err
		}
		bb.Append(n)
	case *array.Uint64Builder:
		n, err := v.AsUint64()
		if err != nil {
			return err
		}
		bb.Append(n)
	case *array.Float32Builder:
		f, err := v.AsFloat64()
		if err != nil {
			return err
		}
		bb.Append(float32(f))
	case *array.Float64Builder:
		f, err := v.AsFloat64()
		if err != nil {
			return err
		}
		bb.Append(f)
	case *array.Decimal128Builder:
		dt := bb.Type().(*arrow.Decimal128Type)
		num, err := decimalToNum(v, dt)
		if err != nil {
			return err
		}
		bb.Append(num)
	case *array.StringBuilder:
		bb.Append(v.String())
	case *array.BinaryBuilder:
		if v.typ.ID == Blob {
			bb.Append(v.b)
		} else {
			bb.AppendString(v.String())
		}
	case *array.Date32Builder:
		if v.typ.ID != Date {
			return v.conversionError("DATE")
		}
		bb.Append(arrow.Date32(v.i))
	case *array.Time64Builder:
		if v.typ.ID != Time {
			return v.conversionError("TIME")
		}
		bb.Append(arrow.Time64(v.i))
	case *array.TimestampBuilder:
		if v.typ.ID != Timestamp {
			return v.conversionError("TIMESTAMP")
		}
		bb.Append(arrow.Timestamp(v.i))
	default:
		return errors.Newf(errors.ErrorTypeConversion, "cannot append %s to builder of %s", v.typ, b.Type())
	}
	return nil
}

func decimalToNum(v Value, dt *arrow.Decimal128Type) (decimal128.Num, error) {
	var d decimal.Decimal
	switch {
	case v.typ.ID == Decimal:
		d = v.d
	case v.typ.IsIntegral():
		n, err := v.AsInt64()
		if err != nil {
			return decimal128.Num{}, err
		}
		d = decimal.NewFromInt(n)
	case v.typ.ID == Float || v.typ.ID == Double:
		d = decimal.NewFromFloat(v.f)
	default:
		return decimal128.Num{}, v.conversionError(dt.String())
	}

	unscaled := d.Round(dt.Scale).Shift(dt.Scale).BigInt()
	num := decimal128.FromBigInt(unscaled)
	if !num.FitsInPrecision(dt.Precision) {
		return decimal128.Num{}, errors.Newf(errors.ErrorTypeOutOfRange,
			"value %s does not fit in %s", d.String(), dt)
	}
	return num, nil
}

func toMicros(v int64, unit arrow.TimeUnit) int64 {
	switch unit {
	case arrow.Second:
		return v * 1_000_000
	case arrow.Millisecond:
		return v * 1_000
	case arrow.Nanosecond:
		return v / 1_000
	default:
		return v
	}
}
