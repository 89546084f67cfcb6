package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
)

func TestWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("creates parents and writes content", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "a.test", "docs", "file.pdf")

		n, err := WriteFile(path, strings.NewReader("%PDF-1.4"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != int64(len("%PDF-1.4")) {
			t.Errorf("expected %d bytes, got %d", len("%PDF-1.4"), n)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		if string(got) != "%PDF-1.4" {
			t.Errorf("unexpected content %q", got)
		}
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "file.csv")
		if _, err := WriteFile(path, strings.NewReader("old,old,old")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := WriteFile(path, strings.NewReader("new")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		if string(got) != "new" {
			t.Errorf("expected new content, got %q", got)
		}
	})

	t.Run("failed copy leaves nothing behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "broken.bin")
		errRead := errors.New("connection reset")

		_, err := WriteFile(path, iotest.ErrReader(errRead))
		if !errors.Is(err, errRead) {
			t.Fatalf("expected read error, got %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("failed to read dir: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected empty directory, found %d entries", len(entries))
		}
	})

	t.Run("parent is a file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
			t.Fatalf("failed to create blocker: %v", err)
		}

		if _, err := WriteFile(filepath.Join(blocker, "file.pdf"), strings.NewReader("x")); !errors.Is(err, ErrNotDirectory) {
			t.Errorf("expected ErrNotDirectory, got %v", err)
		}
	})
}

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out", "nested")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("expected idempotent call, got %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory at %s", dir)
	}
}
