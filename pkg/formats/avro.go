package formats

import (
	"io"
	"strconv"
	"strings"

	"github.com/linkedin/goavro/v2"

	"github.com/ajitpratap0/matresult/pkg/compression"
	"github.com/ajitpratap0/matresult/pkg/errors"
	"github.com/ajitpratap0/matresult/pkg/json"
	"github.com/ajitpratap0/matresult/pkg/result"
	"github.com/ajitpratap0/matresult/pkg/types"
	"github.com/ajitpratap0/matresult/pkg/variant"
)

// avroBlockLength is the number of rows per OCF block
const avroBlockLength = 1024

// AvroSchema returns the Avro record schema of the result's columns. Every
// field is a union with null. UBIGINT has no Avro counterpart and is written
// as its decimal text.
func AvroSchema(names []string, lts []types.LogicalType) (string, error) {
	fieldNames := avroFieldNames(names)
	fields := make([]map[string]interface{}, len(lts))
	for i, lt := range lts {
		fields[i] = map[string]interface{}{
			"name":    fieldNames[i],
			"type":    []interface{}{"null", avroType(variant.KindOf(lt))},
			"default": nil,
		}
	}
	schema, err := json.Marshal(map[string]interface{}{
		"type":      "record",
		"name":      "Row",
		"namespace": "matresult",
		"fields":    fields,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeFormat, "failed to build Avro schema")
	}
	return string(schema), nil
}

func avroType(k variant.Kind) string {
	switch k {
	case variant.Bool:
		return "boolean"
	case variant.Int32:
		return "int"
	case variant.UInt32, variant.Int64:
		return "long"
	case variant.Double:
		return "double"
	default:
		return "string"
	}
}

// avroFieldNames maps column names to valid, unique Avro names
func avroFieldNames(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		var b strings.Builder
		for j, r := range name {
			switch {
			case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
				b.WriteRune(r)
			case r >= '0' && r <= '9':
				if j == 0 {
					b.WriteByte('_')
				}
				b.WriteRune(r)
			default:
				b.WriteByte('_')
			}
		}
		field := b.String()
		if field == "" {
			field = "col" + strconv.Itoa(i)
		}
		candidate := field
		for n := 1; ; n++ {
			if _, taken := seen[candidate]; !taken {
				break
			}
			candidate = field + "_" + strconv.Itoa(n)
		}
		seen[candidate] = struct{}{}
		out[i] = candidate
	}
	return out
}

// avroDatum converts a variant to the goavro native form of its union
func avroDatum(v variant.Variant) interface{} {
	switch v.Kind() {
	case variant.Absent:
		return nil
	case variant.Bool:
		b, _ := v.Bool()
		return goavro.Union("boolean", b)
	case variant.Int32:
		n, _ := v.Int32()
		return goavro.Union("int", n)
	case variant.UInt32:
		n, _ := v.UInt32()
		return goavro.Union("long", int64(n))
	case variant.Int64:
		n, _ := v.Int64()
		return goavro.Union("long", n)
	case variant.UInt64:
		n, _ := v.UInt64()
		return goavro.Union("string", strconv.FormatUint(n, 10))
	case variant.Double:
		f, _ := v.Double()
		return goavro.Union("double", f)
	default:
		s, _ := v.Str()
		return goavro.Union("string", s)
	}
}

func avroCodec(algo compression.Algorithm) (string, error) {
	switch algo {
	case compression.None, "":
		return goavro.CompressionNullLabel, nil
	case compression.Deflate, compression.Gzip:
		return goavro.CompressionDeflateLabel, nil
	case compression.Snappy:
		return goavro.CompressionSnappyLabel, nil
	default:
		return "", errors.Newf(errors.ErrorTypeConfig, "avro output does not support %s compression", algo)
	}
}

// WriteAvro writes the result as an Avro object container file.
func WriteAvro(w io.Writer, res *result.MaterializedResult, opts WriteOptions) error {
	if _, err := collectionOf(res); err != nil {
		return err
	}
	codecName, err := avroCodec(opts.Compression)
	if err != nil {
		return err
	}
	schema, err := AvroSchema(res.Names(), res.Types())
	if err != nil {
		return err
	}

	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               w,
		Schema:          schema,
		CompressionName: codecName,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFormat, "failed to create Avro writer")
	}

	rows, err := res.Export()
	if err != nil {
		return err
	}
	fields := avroFieldNames(res.Names())
	block := make([]interface{}, 0, min(len(rows), avroBlockLength))
	for i, row := range rows {
		datum := make(map[string]interface{}, len(fields))
		for c, v := range row {
			datum[fields[c]] = avroDatum(v)
		}
		block = append(block, datum)
		if len(block) == avroBlockLength || i == len(rows)-1 {
			if err := ocf.Append(block); err != nil {
				return errors.Wrap(err, errors.ErrorTypeFormat, "failed to append Avro block").
					WithDetail("row", i)
			}
			block = block[:0]
		}
	}
	return nil
}
