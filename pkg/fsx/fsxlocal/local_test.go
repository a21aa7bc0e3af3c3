package fsxlocal

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestWriteReadExists(t *testing.T) {
	fs, err := NewLocalFileSystem(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFileSystem() error = %v", err)
	}
	ctx := context.Background()

	path := "alice/2026-08-25/turn.mp3"
	if err := fs.WriteFile(ctx, path, strings.NewReader("audio")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	exists, err := fs.Exists(ctx, path)
	if err != nil || !exists {
		t.Fatalf("Exists() = %v, %v, want true", exists, err)
	}

	rc, err := fs.ReadFileStream(ctx, path)
	if err != nil {
		t.Fatalf("ReadFileStream() error = %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("reading stream: %v", err)
	}
	if string(data) != "audio" {
		t.Errorf("content = %q, want %q", data, "audio")
	}
}

func TestExistsMissingFile(t *testing.T) {
	fs, err := NewLocalFileSystem(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFileSystem() error = %v", err)
	}

	exists, err := fs.Exists(context.Background(), "nope.mp3")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true for a missing file")
	}
}

func TestWriteOverwrites(t *testing.T) {
	fs, err := NewLocalFileSystem(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFileSystem() error = %v", err)
	}
	ctx := context.Background()

	if err := fs.WriteFile(ctx, "f.txt", strings.NewReader("first")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := fs.WriteFile(ctx, "f.txt", strings.NewReader("second")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	rc, err := fs.ReadFileStream(ctx, "f.txt")
	if err != nil {
		t.Fatalf("ReadFileStream() error = %v", err)
	}
	defer rc.Close()

	data, _ := io.ReadAll(rc)
	if string(data) != "second" {
		t.Errorf("content = %q, want the overwritten value", data)
	}
}

func TestPathTraversalContained(t *testing.T) {
	fs, err := NewLocalFileSystem(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFileSystem() error = %v", err)
	}

	// Cleaning the path keeps the write inside the base directory.
	if err := fs.WriteFile(context.Background(), "../../escape.txt", strings.NewReader("x")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	exists, err := fs.Exists(context.Background(), "escape.txt")
	if err != nil || !exists {
		t.Errorf("traversal path should resolve inside the base directory: %v, %v", exists, err)
	}
}
