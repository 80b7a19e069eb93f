package pricecache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_ReadWriteRemove(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "nested", "prices.json"))

	_, err := s.Read(ctx)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.Write(ctx, []byte(`{"a":1}`)))
	require.NoError(t, s.Write(ctx, []byte(`{"a":2}`)))

	data, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(data))

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, s.Remove(ctx))
	require.NoError(t, s.Remove(ctx), "removing twice is fine")
	_, err = s.Read(ctx)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, s.Close())
}

func TestFileStore_Name(t *testing.T) {
	assert.Equal(t, "file:prices.json", NewFileStore("prices.json").Name())
}
