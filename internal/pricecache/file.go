package pricecache

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// FileStore keeps the cache document in a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Name() string { return "file:" + f.path }
func (f *FileStore) Close() error { return nil }

func (f *FileStore) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "file: read %s", f.path)
	}
	return data, nil
}

// Write writes to a temp file next to the target and renames it into place.
func (f *FileStore) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "file: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return eris.Wrap(err, "file: create temp")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "file: write temp")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "file: sync temp")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "file: close temp")
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return eris.Wrapf(err, "file: replace %s", f.path)
	}
	return nil
}

func (f *FileStore) Remove(_ context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return eris.Wrapf(err, "file: remove %s", f.path)
	}
	return nil
}
