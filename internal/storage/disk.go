package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore keeps uploaded source files on disk under a single directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the uploads directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the uploads directory path.
func (f *FileStore) Dir() string {
	return f.dir
}

// Path resolves a stored file's path, rejecting names that escape the
// uploads directory.
func (f *FileStore) Path(filename string) (string, error) {
	clean := filepath.Base(filename)
	if clean == "." || clean == ".." || clean == "" || strings.ContainsRune(filename, os.PathSeparator) {
		return "", fmt.Errorf("invalid filename: %q", filename)
	}
	return filepath.Join(f.dir, clean), nil
}

// Save writes the content to the uploads directory under filename, replacing
// any existing file. The write goes through a temp file and rename so readers
// never observe a partial file.
func (f *FileStore) Save(filename string, r io.Reader) (int64, error) {
	path, err := f.Path(filename)
	if err != nil {
		return 0, err
	}
	tmp := filepath.Join(f.dir, "."+uuid.NewString()+".tmp")
	out, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	n, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("write %s: %w", filename, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("store %s: %w", filename, err)
	}
	return n, nil
}

// Read returns the stored file's content.
func (f *FileStore) Read(filename string) ([]byte, error) {
	path, err := f.Path(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return data, nil
}

// Remove deletes the stored file. Removing a missing file is not an error.
func (f *FileStore) Remove(filename string) error {
	path, err := f.Path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", filename, err)
	}
	return nil
}
