package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "nested", "override")

	if err := WriteFileAtomic(dst, []byte("clipboard"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "clipboard" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestWriteFileAtomicReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "model_override")

	if err := os.WriteFile(dst, []byte("large-v3"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(dst, []byte("base.en"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "base.en" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestWriteFileAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "cancel")

	for range 3 {
		if err := WriteFileAtomic(dst, []byte("cancel"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one entry, got %d", len(entries))
	}
}

func TestRemoveIfExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pid")

	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if err := os.WriteFile(path, []byte("42"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := RemoveIfExists(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err=%v", err)
	}
}

func TestReadTrimmed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state")

	if _, ok := ReadTrimmed(path); ok {
		t.Fatal("expected missing file to report false")
	}
	if err := os.WriteFile(path, []byte("  recording\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, ok := ReadTrimmed(path)
	if !ok || got != "recording" {
		t.Fatalf("ReadTrimmed = %q, %v", got, ok)
	}
}
