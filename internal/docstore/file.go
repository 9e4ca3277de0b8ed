package docstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	poserrors "github.com/abgdnv/butcherpos/internal/errors"
)

var _ Store = (*FileStore)(nil)

// FileStore keeps every document as <dir>/<document>.json.
type FileStore struct {
	dir string
}

// NewFileStore returns a filesystem-backed store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create store dir %s: %w", poserrors.ErrStoreIO, dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the documents.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) pathFor(doc Document) string {
	return filepath.Join(s.dir, doc.String()+".json")
}

func (s *FileStore) Load(_ context.Context, doc Document) ([]byte, error) {
	data, err := os.ReadFile(s.pathFor(doc))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, poserrors.ErrDocumentNotFound
	}
	if err != nil {
		return nil, ioError("read", doc, err)
	}
	return data, nil
}

func (s *FileStore) Save(_ context.Context, doc Document, data []byte) error {
	if err := writeFileAtomic(s.pathFor(doc), data); err != nil {
		return ioError("write", doc, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// writeFileAtomic streams data to a temp file in the target directory, flushes it to disk
// and renames it over path. The temp file is removed on every failure path.
func writeFileAtomic(path string, data []byte) (retErr error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	return syncDir(dir)
}

// syncDir makes the rename durable.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()
	if err := d.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return err
	}
	return nil
}
