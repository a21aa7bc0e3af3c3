package fsxlocal

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalFileSystem stores files under a base directory.
type LocalFileSystem struct {
	basePath string
}

// NewLocalFileSystem creates a local file system rooted at basePath,
// creating the directory if needed.
func NewLocalFileSystem(basePath string) (*LocalFileSystem, error) {
	if basePath == "" {
		basePath = "."
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &LocalFileSystem{basePath: basePath}, nil
}

// GetBasePath returns the root directory of the file system.
func (f *LocalFileSystem) GetBasePath() string {
	return f.basePath
}

func (f *LocalFileSystem) resolve(path string) (string, error) {
	full := filepath.Join(f.basePath, filepath.Clean("/"+path))
	if !strings.HasPrefix(full, filepath.Clean(f.basePath)) {
		return "", errors.New("path escapes base directory")
	}
	return full, nil
}

// WriteFile stores content under path, overwriting any existing file.
func (f *LocalFileSystem) WriteFile(ctx context.Context, path string, content io.Reader) error {
	full, err := f.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}

	out, err := os.Create(full)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, content); err != nil {
		return err
	}
	return out.Close()
}

// ReadFileStream opens the file at path for reading.
func (f *LocalFileSystem) ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error) {
	full, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// Exists reports whether a file is stored under path.
func (f *LocalFileSystem) Exists(ctx context.Context, path string) (bool, error) {
	full, err := f.resolve(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
