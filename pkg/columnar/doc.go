// Package columnar implements the in-memory columnar buffer that backs a
// materialized query result.
//
// # Overview
//
// A Collection is an append-only sequence of Apache Arrow records (chunks) of
// at most ChunkSize rows that share one schema. Once built it is immutable:
// Count and ColumnCount never change and readers never mutate it.
//
// Three read paths exist over the same chunks:
//
//   - Scan: sequential, chunk at a time, driven by a ScanState. With
//     DisallowZeroCopy every returned DataChunk owns copies of its arrow
//     buffers and outlives the Collection.
//   - GetRows: a RowCollection mapping a row number to its chunk and offset
//     for random access. Values are decoded on access.
//   - Chunk: direct access to the stored records, used by format writers.
//
// # Usage Example
//
//	b, err := columnar.NewBuilder(memory.DefaultAllocator,
//		[]string{"a", "b"},
//		[]types.LogicalType{types.TypeInteger, types.TypeVarchar})
//	if err != nil {
//		return err
//	}
//	_ = b.AppendRow(types.NewInteger(1), types.NewVarchar("x"))
//	coll, err := b.Build()
//	if err != nil {
//		return err
//	}
//	defer coll.Release()
//
//	state := coll.InitializeScan(columnar.DisallowZeroCopy)
//	for {
//		chunk, err := coll.Scan(state)
//		if err != nil || chunk == nil {
//			break
//		}
//		process(chunk)
//		chunk.Release()
//	}
//
// Collections are not safe for concurrent mutation. Concurrent readers are
// fine once Build has returned, but ScanState and RowCollection values must
// not be shared between goroutines.
package columnar
