package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/matresult/pkg/errors"
)

func TestOpenAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	content := []byte("0123456789abcdef")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	m, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), m.Size())

	r := m.Reader()
	buf := make([]byte, 4)
	_, err = r.ReadAt(buf, 10)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(buf))

	_, err = r.Seek(0, io.SeekStart)
	require.NoError(t, err)
	all, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, content, all)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	m, err := Open(path)
	require.NoError(t, err)
	assert.Zero(t, m.Size())
	assert.False(t, m.Mapped())
	require.NoError(t, m.Close())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}
