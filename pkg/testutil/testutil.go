// Package testutil provides helpers shared by the package tests
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/matresult/pkg/columnar"
	"github.com/ajitpratap0/matresult/pkg/result"
	"github.com/ajitpratap0/matresult/pkg/types"
)

// TestLogger creates a logger that writes to the test output.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// CheckedAllocator returns an allocator that fails the test if any arrow
// memory is still allocated when the test finishes.
func CheckedAllocator(t *testing.T) *memory.CheckedAllocator {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	return mem
}

// Table describes a small collection by rows
type Table struct {
	Names     []string
	Types     []types.LogicalType
	Rows      [][]types.Value
	ChunkSize int
}

// NewCollection builds the collection described by tbl. The caller owns it.
func NewCollection(t *testing.T, mem memory.Allocator, tbl Table) *columnar.Collection {
	t.Helper()
	b, err := columnar.NewBuilder(mem, tbl.Names, tbl.Types, columnar.WithChunkSize(tbl.ChunkSize))
	require.NoError(t, err)
	for _, row := range tbl.Rows {
		require.NoError(t, b.AppendRow(row...))
	}
	coll, err := b.Build()
	require.NoError(t, err)
	return coll
}

// NewResult builds a successful SELECT result over tbl. The result is closed
// when the test finishes.
func NewResult(t *testing.T, mem memory.Allocator, tbl Table, opts ...result.Option) *result.MaterializedResult {
	t.Helper()
	coll := NewCollection(t, mem, tbl)
	opts = append([]result.Option{result.WithLogger(TestLogger(t))}, opts...)
	res, err := result.NewSuccess(result.StatementSelect, result.StatementProperties{ReadOnly: true},
		tbl.Names, coll, result.ClientProperties{TimeZone: "UTC"}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Close() })
	return res
}

// CreateTempFile writes content to a file in a per-test directory and
// returns its path.
func CreateTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}
