// Package variant defines the closed set of value kinds a result is exported
// as, and the mapping from logical types onto it.
//
// A Variant is a small value type, not an interface: exporting a row never
// allocates per cell beyond the string payloads, and every payload is an
// independent copy of the columnar data it came from.
package variant

import (
	"math"
	"strconv"

	"github.com/ajitpratap0/matresult/pkg/types"
)

// Kind identifies which payload a Variant holds
type Kind uint8

const (
	// Absent marks a NULL cell
	Absent Kind = iota
	Bool
	Int32
	UInt32
	Int64
	UInt64
	Double
	String
)

var kindNames = [...]string{
	Absent: "Absent",
	Bool:   "Bool",
	Int32:  "Int32",
	UInt32: "UInt32",
	Int64:  "Int64",
	UInt64: "UInt64",
	Double: "Double",
	String: "String",
}

// String returns the kind name
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Variant is one exported cell
type Variant struct {
	kind Kind
	bits uint64
	str  string
}

// Null returns the Absent variant
func Null() Variant { return Variant{} }

// FromBool returns a Bool variant
func FromBool(v bool) Variant {
	if v {
		return Variant{kind: Bool, bits: 1}
	}
	return Variant{kind: Bool}
}

// FromInt32 returns an Int32 variant
func FromInt32(v int32) Variant { return Variant{kind: Int32, bits: uint64(int64(v))} }

// FromUInt32 returns a UInt32 variant
func FromUInt32(v uint32) Variant { return Variant{kind: UInt32, bits: uint64(v)} }

// FromInt64 returns an Int64 variant
func FromInt64(v int64) Variant { return Variant{kind: Int64, bits: uint64(v)} }

// FromUInt64 returns a UInt64 variant
func FromUInt64(v uint64) Variant { return Variant{kind: UInt64, bits: v} }

// FromDouble returns a Double variant
func FromDouble(v float64) Variant { return Variant{kind: Double, bits: math.Float64bits(v)} }

// FromString returns a String variant
func FromString(v string) Variant { return Variant{kind: String, str: v} }

// KindOf returns the kind every non-null value of type t is exported as
func KindOf(t types.LogicalType) Kind {
	switch t.ID {
	case types.Boolean:
		return Bool
	case types.TinyInt, types.SmallInt, types.Integer, types.UTinyInt, types.USmallInt:
		return Int32
	case types.BigInt:
		return Int64
	case types.UInteger:
		return UInt32
	case types.UBigInt:
		return UInt64
	case types.Float, types.Double, types.Decimal:
		return Double
	default:
		return String
	}
}

// FromValue converts a cell to its exported form. NULL becomes Absent and
// never a typed zero. DECIMAL goes through float64 and may lose precision.
// Types without a dedicated kind are exported as their canonical text.
func FromValue(v types.Value) Variant {
	if v.IsNull() {
		return Null()
	}

	switch t := v.Type(); t.ID {
	case types.Boolean:
		return FromBool(v.Bool())
	case types.TinyInt, types.SmallInt, types.Integer:
		n, _ := v.AsInt64()
		return FromInt32(int32(n))
	case types.UTinyInt, types.USmallInt:
		n, _ := v.AsUint64()
		return FromInt32(int32(n))
	case types.BigInt:
		n, _ := v.AsInt64()
		return FromInt64(n)
	case types.UInteger:
		n, _ := v.AsUint64()
		return FromUInt32(uint32(n))
	case types.UBigInt:
		n, _ := v.AsUint64()
		return FromUInt64(n)
	case types.Float, types.Double, types.Decimal:
		f, _ := v.AsFloat64()
		return FromDouble(f)
	case types.Varchar:
		return FromString(v.Str())
	default:
		return FromString(v.String())
	}
}

// Kind returns the kind of the variant
func (v Variant) Kind() Kind { return v.kind }

// IsAbsent reports whether the variant stands for NULL
func (v Variant) IsAbsent() bool { return v.kind == Absent }

// Bool returns the payload and whether the variant is a Bool
func (v Variant) Bool() (bool, bool) {
	return v.bits != 0, v.kind == Bool
}

// Int32 returns the payload and whether the variant is an Int32
func (v Variant) Int32() (int32, bool) {
	return int32(int64(v.bits)), v.kind == Int32
}

// UInt32 returns the payload and whether the variant is a UInt32
func (v Variant) UInt32() (uint32, bool) {
	return uint32(v.bits), v.kind == UInt32
}

// Int64 returns the payload and whether the variant is an Int64
func (v Variant) Int64() (int64, bool) {
	return int64(v.bits), v.kind == Int64
}

// UInt64 returns the payload and whether the variant is a UInt64
func (v Variant) UInt64() (uint64, bool) {
	return v.bits, v.kind == UInt64
}

// Double returns the payload and whether the variant is a Double
func (v Variant) Double() (float64, bool) {
	return math.Float64frombits(v.bits), v.kind == Double
}

// Str returns the payload and whether the variant is a String
func (v Variant) Str() (string, bool) {
	return v.str, v.kind == String
}

// Interface returns the payload as a plain Go value, nil for Absent
func (v Variant) Interface() interface{} {
	switch v.kind {
	case Bool:
		return v.bits != 0
	case Int32:
		return int32(int64(v.bits))
	case UInt32:
		return uint32(v.bits)
	case Int64:
		return int64(v.bits)
	case UInt64:
		return v.bits
	case Double:
		return math.Float64frombits(v.bits)
	case String:
		return v.str
	default:
		return nil
	}
}

// String formats the variant as Kind(payload), e.g. Int32(1) or Absent
func (v Variant) String() string {
	switch v.kind {
	case Absent:
		return "Absent"
	case String:
		return "String(" + strconv.Quote(v.str) + ")"
	case Double:
		return "Double(" + strconv.FormatFloat(math.Float64frombits(v.bits), 'g', -1, 64) + ")"
	default:
		return v.kind.String() + "(" + payloadText(v) + ")"
	}
}

func payloadText(v Variant) string {
	switch v.kind {
	case Bool:
		return strconv.FormatBool(v.bits != 0)
	case Int32, Int64:
		return strconv.FormatInt(int64(v.bits), 10)
	default:
		return strconv.FormatUint(v.bits, 10)
	}
}

// Equal reports whether both variants have the same kind and payload.
// Double payloads compare bitwise so NaN equals NaN.
func (v Variant) Equal(o Variant) bool {
	return v.kind == o.kind && v.bits == o.bits && v.str == o.str
}
