package variant

import (
	"math"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// MarshalJSON encodes Absent as null. Non-finite doubles have no JSON number
// form and are written as the strings "nan", "inf" and "-inf".
func (v Variant) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Absent:
		return []byte("null"), nil
	case Bool:
		return strconv.AppendBool(nil, v.bits != 0), nil
	case Int32, Int64:
		return strconv.AppendInt(nil, int64(v.bits), 10), nil
	case UInt32, UInt64:
		return strconv.AppendUint(nil, v.bits, 10), nil
	case Double:
		f := math.Float64frombits(v.bits)
		switch {
		case math.IsNaN(f):
			return []byte(`"nan"`), nil
		case math.IsInf(f, 1):
			return []byte(`"inf"`), nil
		case math.IsInf(f, -1):
			return []byte(`"-inf"`), nil
		}
		return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
	default:
		return gojson.Marshal(v.str)
	}
}

// Object is an exported row encoded as a JSON object whose keys follow the
// column order.
type Object struct {
	Names  []string
	Values []Variant
}

// Row pairs column names with an exported row.
func Row(names []string, row []Variant) Object {
	return Object{Names: names, Values: row}
}

// MarshalJSON writes the columns in order. Duplicate names are written as
// they appear.
func (o Object) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 16*len(o.Names)+2)
	buf = append(buf, '{')
	for i, name := range o.Names {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := gojson.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')

		v := Null()
		if i < len(o.Values) {
			v = o.Values[i]
		}
		val, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf = append(buf, val...)
	}
	return append(buf, '}'), nil
}
