// Package matresult holds a fully materialized query result: the complete
// set of rows a statement produced, buffered in memory as a chunked columnar
// collection, plus the schema and statement metadata needed to print it,
// page through it, or export it.
//
// # Architecture
//
// A result is either a success carrying a collection, or a failure carrying
// the error that stopped the statement. Every accessor behaves sensibly in
// both cases: failures render their diagnostic, report zero rows and refuse
// fetches with an invalid-operation error.
//
//	types     - logical types and typed scalar values
//	columnar  - chunks, builders, collections and the row index
//	result    - the materialized result and its operations
//	render    - plain text and box rendering
//	variant   - host-language export values and JSON encoding
//	formats   - CSV, JSON, Arrow IPC, Parquet and Avro readers and writers
//
// # Quick Start
//
//	b, _ := columnar.NewBuilder(nil, []string{"a"}, []types.LogicalType{types.TypeInteger})
//	_ = b.AppendRow(types.NewInteger(1))
//	coll, _ := b.Build()
//
//	res, err := result.NewSuccess(result.StatementSelect,
//	    result.StatementProperties{ReadOnly: true}, []string{"a"}, coll,
//	    result.ClientProperties{})
//	if err != nil {
//	    return err
//	}
//	defer res.Close()
//
//	fmt.Print(res.ToString())
//
// # Command Line
//
// The matresult command loads a file as a result and shows, fetches or
// exports it:
//
//	matresult show data.csv --mode box --max-rows 20
//	matresult fetch data.parquet --chunk-size 1024
//	matresult export data.csv --to parquet --compression zstd -o data.parquet
//
// Configuration is read from a YAML file (--config) and from MATRESULT_*
// environment variables. Values of the form ${VAR_NAME} in the file are
// substituted from the environment.
package matresult
