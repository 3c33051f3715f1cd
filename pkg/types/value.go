package types

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ajitpratap0/matresult/pkg/errors"
	stringpool "github.com/ajitpratap0/matresult/pkg/strings"
)

// Value is one logical cell: a type, a null flag and a payload.
//
// Values own their payload. Strings and blobs read from a columnar buffer are
// copied, so a Value stays valid after the buffer is released.
type Value struct {
	typ    LogicalType
	isNull bool
	i      int64 // BOOLEAN, signed integers, DATE (days), TIME (µs), TIMESTAMP (µs)
	u      uint64
	f      float64
	s      string
	b      []byte
	d      decimal.Decimal
}

const microsPerDay = int64(24 * time.Hour / time.Microsecond)

// NewNull creates a NULL value of the given type
func NewNull(t LogicalType) Value {
	return Value{typ: t, isNull: true}
}

// NewBoolean creates a BOOLEAN value
func NewBoolean(v bool) Value {
	val := Value{typ: TypeBoolean}
	if v {
		val.i = 1
	}
	return val
}

// NewTinyInt creates a TINYINT value
func NewTinyInt(v int8) Value { return Value{typ: TypeTinyInt, i: int64(v)} }

// NewSmallInt creates a SMALLINT value
func NewSmallInt(v int16) Value { return Value{typ: TypeSmallInt, i: int64(v)} }

// NewInteger creates an INTEGER value
func NewInteger(v int32) Value { return Value{typ: TypeInteger, i: int64(v)} }

// NewBigInt creates a BIGINT value
func NewBigInt(v int64) Value { return Value{typ: TypeBigInt, i: v} }

// NewUTinyInt creates a UTINYINT value
func NewUTinyInt(v uint8) Value { return Value{typ: TypeUTinyInt, u: uint64(v)} }

// NewUSmallInt creates a USMALLINT value
func NewUSmallInt(v uint16) Value { return Value{typ: TypeUSmallInt, u: uint64(v)} }

// NewUInteger creates a UINTEGER value
func NewUInteger(v uint32) Value { return Value{typ: TypeUInteger, u: uint64(v)} }

// NewUBigInt creates a UBIGINT value
func NewUBigInt(v uint64) Value { return Value{typ: TypeUBigInt, u: v} }

// NewFloat creates a FLOAT value
func NewFloat(v float32) Value { return Value{typ: TypeFloat, f: float64(v)} }

// NewDouble creates a DOUBLE value
func NewDouble(v float64) Value { return Value{typ: TypeDouble, f: v} }

// NewVarchar creates a VARCHAR value
func NewVarchar(v string) Value { return Value{typ: TypeVarchar, s: v} }

// NewBlob creates a BLOB value holding a copy of v
func NewBlob(v []byte) Value {
	return Value{typ: TypeBlob, b: bytes.Clone(v)}
}

// NewDecimal creates a DECIMAL value rounded to t's scale
func NewDecimal(v decimal.Decimal, t LogicalType) Value {
	return Value{typ: t, d: v.Round(int32(t.Scale))}
}

// NewDate creates a DATE value from the calendar day of v in UTC
func NewDate(v time.Time) Value {
	secs := v.Unix()
	days := (secs - floorMod(secs, 86400)) / 86400
	return Value{typ: TypeDate, i: days}
}

// NewDateFromDays creates a DATE value from days since the unix epoch
func NewDateFromDays(days int64) Value {
	return Value{typ: TypeDate, i: days}
}

// NewTime creates a TIME value from the offset since midnight
func NewTime(sinceMidnight time.Duration) Value {
	return Value{typ: TypeTime, i: sinceMidnight.Microseconds()}
}

// NewTimestamp creates a TIMESTAMP value with microsecond precision
func NewTimestamp(v time.Time) Value {
	return Value{typ: TypeTimestamp, i: v.UnixMicro()}
}

// NewTimestampFromMicros creates a TIMESTAMP value from microseconds since the unix epoch
func NewTimestampFromMicros(us int64) Value {
	return Value{typ: TypeTimestamp, i: us}
}

// Type returns the logical type of the value
func (v Value) Type() LogicalType {
	return v.typ
}

// IsNull reports whether the value is NULL
func (v Value) IsNull() bool {
	return v.isNull
}

// Bool returns the payload of a BOOLEAN value
func (v Value) Bool() bool {
	return v.i != 0
}

// Decimal returns the payload of a DECIMAL value
func (v Value) Decimal() decimal.Decimal {
	return v.d
}

// Bytes returns a copy of the payload of a BLOB value
func (v Value) Bytes() []byte {
	return bytes.Clone(v.b)
}

// Str returns the payload of a VARCHAR value
func (v Value) Str() string {
	return v.s
}

// Time returns DATE and TIMESTAMP values as UTC times
func (v Value) Time() (time.Time, error) {
	switch v.typ.ID {
	case Date:
		return time.Unix(v.i*86400, 0).UTC(), nil
	case Timestamp:
		return time.UnixMicro(v.i).UTC(), nil
	default:
		return time.Time{}, v.conversionError("time.Time")
	}
}

// Micros returns the raw microsecond payload of TIME and TIMESTAMP values
// and the day count of DATE values.
func (v Value) Micros() int64 {
	return v.i
}

// AsInt64 converts the value to int64 without losing information. Fractional
// numbers are a conversion error, unsigned values above MaxInt64 an out of
// range error.
func (v Value) AsInt64() (int64, error) {
	if v.isNull {
		return 0, v.conversionError("int64")
	}
	switch v.typ.ID {
	case Boolean, TinyInt, SmallInt, Integer, BigInt:
		return v.i, nil
	case UTinyInt, USmallInt, UInteger, UBigInt:
		if v.u > math.MaxInt64 {
			return 0, errors.Newf(errors.ErrorTypeOutOfRange, "value %d does not fit in int64", v.u)
		}
		return int64(v.u), nil
	case Float, Double:
		if math.Trunc(v.f) != v.f {
			return 0, v.conversionError("int64")
		}
		if v.f < -(1<<63) || v.f >= 1<<63 {
			return 0, errors.Newf(errors.ErrorTypeOutOfRange, "value %s does not fit in int64", v.String())
		}
		return int64(v.f), nil
	case Decimal:
		if !v.d.IsInteger() {
			return 0, v.conversionError("int64")
		}
		bi := v.d.BigInt()
		if !bi.IsInt64() {
			return 0, errors.Newf(errors.ErrorTypeOutOfRange, "value %s does not fit in int64", v.String())
		}
		return bi.Int64(), nil
	case Varchar:
		n, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
		if err != nil {
			return 0, errors.Wrap(err, errors.ErrorTypeConversion,
				stringpool.Sprintf("could not convert string %q to int64", v.s))
		}
		return n, nil
	default:
		return 0, v.conversionError("int64")
	}
}

// AsUint64 converts the value to uint64 without losing information
func (v Value) AsUint64() (uint64, error) {
	if !v.isNull && v.typ.IsUnsigned() {
		return v.u, nil
	}
	n, err := v.AsInt64()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.Newf(errors.ErrorTypeOutOfRange, "value %d does not fit in uint64", n)
	}
	return uint64(n), nil
}

// AsFloat64 converts numeric values to float64. DECIMAL values go through a
// floating approximation and may lose precision.
func (v Value) AsFloat64() (float64, error) {
	if v.isNull {
		return 0, v.conversionError("float64")
	}
	switch v.typ.ID {
	case Boolean, TinyInt, SmallInt, Integer, BigInt:
		return float64(v.i), nil
	case UTinyInt, USmallInt, UInteger, UBigInt:
		return float64(v.u), nil
	case Float, Double:
		return v.f, nil
	case Decimal:
		return v.d.InexactFloat64(), nil
	case Varchar:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, errors.Wrap(err, errors.ErrorTypeConversion,
				stringpool.Sprintf("could not convert string %q to float64", v.s))
		}
		return f, nil
	default:
		return 0, v.conversionError("float64")
	}
}

// String returns the canonical text form of the value. NULL renders as "NULL".
func (v Value) String() string {
	if v.isNull {
		return "NULL"
	}
	switch v.typ.ID {
	case Boolean:
		if v.i != 0 {
			return "true"
		}
		return "false"
	case TinyInt, SmallInt, Integer, BigInt:
		return strconv.FormatInt(v.i, 10)
	case UTinyInt, USmallInt, UInteger, UBigInt:
		return strconv.FormatUint(v.u, 10)
	case Float:
		return formatFloat(v.f, 32)
	case Double:
		return formatFloat(v.f, 64)
	case Decimal:
		return v.d.StringFixed(int32(v.typ.Scale))
	case Varchar:
		return v.s
	case Blob:
		return formatBlob(v.b)
	case Date:
		return time.Unix(v.i*86400, 0).UTC().Format("2006-01-02")
	case Time:
		return formatTime(v.i)
	case Timestamp:
		t := time.UnixMicro(v.i).UTC()
		return t.Format("2006-01-02 ") + formatTime(floorMod(v.i, microsPerDay))
	default:
		return "INVALID"
	}
}

// Equal reports whether two values have the same type, nullness and payload.
// NaN equals NaN.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ || v.isNull != o.isNull {
		return false
	}
	if v.isNull {
		return true
	}
	switch v.typ.ID {
	case UTinyInt, USmallInt, UInteger, UBigInt:
		return v.u == o.u
	case Float, Double:
		if math.IsNaN(v.f) && math.IsNaN(o.f) {
			return true
		}
		return v.f == o.f
	case Decimal:
		return v.d.Equal(o.d)
	case Varchar:
		return v.s == o.s
	case Blob:
		return bytes.Equal(v.b, o.b)
	default:
		return v.i == o.i
	}
}

func (v Value) conversionError(target string) *errors.Error {
	if v.isNull {
		return errors.Newf(errors.ErrorTypeConversion, "cannot convert NULL %s to %s", v.typ, target)
	}
	return errors.Newf(errors.ErrorTypeConversion, "cannot convert %s value %q to %s", v.typ, v.String(), target)
}

func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func formatTime(micros int64) string {
	us := micros % 1_000_000
	secs := micros / 1_000_000
	out := stringpool.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
	if us == 0 {
		return out
	}
	frac := strings.TrimRight(stringpool.Sprintf("%06d", us), "0")
	return out + "." + frac
}

func formatBlob(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c < 32 || c > 126 || c == '\\' || c == '\'' || c == '"' {
			sb.WriteString(stringpool.Sprintf(`\x%02X`, c))
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
