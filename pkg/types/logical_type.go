// Package types defines the logical type system of query results and the
// Value type holding a single cell.
//
// Logical types are backed by Apache Arrow data types: every LogicalType has a
// physical arrow representation (ToArrow) and every supported arrow type maps
// back to a logical type (FromArrow).
package types

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/ajitpratap0/matresult/pkg/errors"
	stringpool "github.com/ajitpratap0/matresult/pkg/strings"
)

// LogicalTypeID identifies the logical type of a column
type LogicalTypeID uint8

const (
	Invalid LogicalTypeID = iota
	Boolean
	TinyInt
	SmallInt
	Integer
	BigInt
	UTinyInt
	USmallInt
	UInteger
	UBigInt
	Float
	Double
	Decimal
	Varchar
	Blob
	Date
	Time
	Timestamp
)

// MaxDecimalWidth is the widest decimal a 128-bit payload can hold
const MaxDecimalWidth = 38

var typeNames = [...]string{
	Invalid:   "INVALID",
	Boolean:   "BOOLEAN",
	TinyInt:   "TINYINT",
	SmallInt:  "SMALLINT",
	Integer:   "INTEGER",
	BigInt:    "BIGINT",
	UTinyInt:  "UTINYINT",
	USmallInt: "USMALLINT",
	UInteger:  "UINTEGER",
	UBigInt:   "UBIGINT",
	Float:     "FLOAT",
	Double:    "DOUBLE",
	Decimal:   "DECIMAL",
	Varchar:   "VARCHAR",
	Blob:      "BLOB",
	Date:      "DATE",
	Time:      "TIME",
	Timestamp: "TIMESTAMP",
}

// String returns the SQL name of the type id
func (id LogicalTypeID) String() string {
	if int(id) < len(typeNames) {
		return typeNames[id]
	}
	return stringpool.Sprintf("LogicalTypeID(%d)", uint8(id))
}

// LogicalType is a logical type id plus its modifiers. Width and Scale are
// only meaningful for DECIMAL.
type LogicalType struct {
	ID    LogicalTypeID
	Width uint8
	Scale uint8
}

// Predefined types without modifiers
var (
	TypeBoolean   = LogicalType{ID: Boolean}
	TypeTinyInt   = LogicalType{ID: TinyInt}
	TypeSmallInt  = LogicalType{ID: SmallInt}
	TypeInteger   = LogicalType{ID: Integer}
	TypeBigInt    = LogicalType{ID: BigInt}
	TypeUTinyInt  = LogicalType{ID: UTinyInt}
	TypeUSmallInt = LogicalType{ID: USmallInt}
	TypeUInteger  = LogicalType{ID: UInteger}
	TypeUBigInt   = LogicalType{ID: UBigInt}
	TypeFloat     = LogicalType{ID: Float}
	TypeDouble    = LogicalType{ID: Double}
	TypeVarchar   = LogicalType{ID: Varchar}
	TypeBlob      = LogicalType{ID: Blob}
	TypeDate      = LogicalType{ID: Date}
	TypeTime      = LogicalType{ID: Time}
	TypeTimestamp = LogicalType{ID: Timestamp}
)

// NewDecimalType creates a DECIMAL(width, scale) type
func NewDecimalType(width, scale uint8) (LogicalType, error) {
	if width == 0 || width > MaxDecimalWidth {
		return LogicalType{}, errors.Newf(errors.ErrorTypeValidation,
			"decimal width must be between 1 and %d, got %d", MaxDecimalWidth, width)
	}
	if scale > width {
		return LogicalType{}, errors.Newf(errors.ErrorTypeValidation,
			"decimal scale %d exceeds width %d", scale, width)
	}
	return LogicalType{ID: Decimal, Width: width, Scale: scale}, nil
}

// MustDecimalType is NewDecimalType for constant arguments
func MustDecimalType(width, scale uint8) LogicalType {
	t, err := NewDecimalType(width, scale)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the SQL spelling of the type, with width and scale for DECIMAL
func (t LogicalType) String() string {
	if t.ID == Decimal {
		return stringpool.Sprintf("DECIMAL(%d,%d)", t.Width, t.Scale)
	}
	return t.ID.String()
}

// IsIntegral reports whether the type is a signed or unsigned integer
func (t LogicalType) IsIntegral() bool {
	switch t.ID {
	case TinyInt, SmallInt, Integer, BigInt, UTinyInt, USmallInt, UInteger, UBigInt:
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether the type is an unsigned integer
func (t LogicalType) IsUnsigned() bool {
	switch t.ID {
	case UTinyInt, USmallInt, UInteger, UBigInt:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether values of the type are numbers
func (t LogicalType) IsNumeric() bool {
	return t.IsIntegral() || t.ID == Float || t.ID == Double || t.ID == Decimal
}

// ToArrow returns the physical arrow type used to store the logical type
func (t LogicalType) ToArrow() (arrow.DataType, error) {
	switch t.ID {
	case Boolean:
		return arrow.FixedWidthTypes.Boolean, nil
	case TinyInt:
		return arrow.PrimitiveTypes.Int8, nil
	case SmallInt:
		return arrow.PrimitiveTypes.Int16, nil
	case Integer:
		return arrow.PrimitiveTypes.Int32, nil
	case BigInt:
		return arrow.PrimitiveTypes.Int64, nil
	case UTinyInt:
		return arrow.PrimitiveTypes.Uint8, nil
	case USmallInt:
		return arrow.PrimitiveTypes.Uint16, nil
	case UInteger:
		return arrow.PrimitiveTypes.Uint32, nil
	case UBigInt:
		return arrow.PrimitiveTypes.Uint64, nil
	case Float:
		return arrow.PrimitiveTypes.Float32, nil
	case Double:
		return arrow.PrimitiveTypes.Float64, nil
	case Decimal:
		return &arrow.Decimal128Type{Precision: int32(t.Width), Scale: int32(t.Scale)}, nil
	case Varchar:
		return arrow.BinaryTypes.String, nil
	case Blob:
		return arrow.BinaryTypes.Binary, nil
	case Date:
		return arrow.FixedWidthTypes.Date32, nil
	case Time:
		return arrow.FixedWidthTypes.Time64us, nil
	case Timestamp:
		return &arrow.TimestampType{Unit: arrow.Microsecond}, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeConversion, "logical type %s has no arrow representation", t)
	}
}

// FromArrow derives the logical type of an arrow column
func FromArrow(dt arrow.DataType) (LogicalType, error) {
	switch dt.ID() {
	case arrow.BOOL:
		return TypeBoolean, nil
	case arrow.INT8:
		return TypeTinyInt, nil
	case arrow.INT16:
		return TypeSmallInt, nil
	case arrow.INT32:
		return TypeInteger, nil
	case arrow.INT64:
		return TypeBigInt, nil
	case arrow.UINT8:
		return TypeUTinyInt, nil
	case arrow.UINT16:
		return TypeUSmallInt, nil
	case arrow.UINT32:
		return TypeUInteger, nil
	case arrow.UINT64:
		return TypeUBigInt, nil
	case arrow.FLOAT32:
		return TypeFloat, nil
	case arrow.FLOAT64:
		return TypeDouble, nil
	case arrow.DECIMAL128:
		dec := dt.(*arrow.Decimal128Type)
		if dec.Scale < 0 || dec.Precision <= 0 || dec.Precision > MaxDecimalWidth {
			return LogicalType{}, errors.Newf(errors.ErrorTypeConversion, "unsupported decimal %s", dt)
		}
		return NewDecimalType(uint8(dec.Precision), uint8(dec.Scale))
	case arrow.STRING, arrow.LARGE_STRING:
		return TypeVarchar, nil
	case arrow.BINARY, arrow.LARGE_BINARY:
		return TypeBlob, nil
	case arrow.DATE32, arrow.DATE64:
		return TypeDate, nil
	case arrow.TIME32, arrow.TIME64:
		return TypeTime, nil
	case arrow.TIMESTAMP:
		return TypeTimestamp, nil
	default:
		return LogicalType{}, errors.Newf(errors.ErrorTypeConversion, "unsupported arrow type %s", dt)
	}
}
