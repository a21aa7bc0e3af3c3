package fsx

import (
	"context"
	"io"
)

// FileReader reads stored files as streams.
type FileReader interface {
	// ReadFileStream opens the file at path for reading
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
}

// FileSystem is the storage abstraction used for generated artifacts.
// Implementations exist for the local filesystem and S3.
type FileSystem interface {
	FileReader

	// WriteFile stores content under path, overwriting any existing object
	WriteFile(ctx context.Context, path string, content io.Reader) error

	// Exists reports whether an object is stored under path
	Exists(ctx context.Context, path string) (bool, error)
}
