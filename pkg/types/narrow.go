package types

import (
	"github.com/ajitpratap0/matresult/pkg/errors"
)

// Integral is the set of Go integer types a Value can be narrowed to
type Integral interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// Narrow converts v to the integer type T.
//
// Overflow is an ErrorTypeOutOfRange error, never a silent truncation.
// Fractional values and NULL are ErrorTypeConversion errors.
func Narrow[T Integral](v Value) (T, error) {
	var zero T
	if !v.isNull && v.typ.IsUnsigned() {
		if !fitsUnsigned[T](v.u) {
			return zero, errors.Newf(errors.ErrorTypeOutOfRange,
				"value %d does not fit in %T", v.u, zero)
		}
		return T(v.u), nil
	}

	n, err := v.AsInt64()
	if err != nil {
		return zero, err
	}
	if !fitsSigned[T](n) {
		return zero, errors.Newf(errors.ErrorTypeOutOfRange,
			"value %d does not fit in %T", n, zero)
	}
	return T(n), nil
}

func fitsSigned[T Integral](n int64) bool {
	t := T(n)
	if int64(t) != n {
		return false
	}
	// -1 round-trips through uint64, so the sign is checked separately
	return (n < 0) == (t < 0)
}

func fitsUnsigned[T Integral](u uint64) bool {
	t := T(u)
	return t >= 0 && uint64(t) == u
}
