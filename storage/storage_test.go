package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "blobs")

	s, err := New(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if s.Dir() != dir {
		t.Errorf("expected dir %s, got %s", dir, s.Dir())
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("blob directory not created: %v", err)
	}
}

func TestPut(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	content := []byte("hello, world\n")
	size, err := s.Put("key-1", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if size != int64(len(content)) {
		t.Errorf("expected size %d, got %d", len(content), size)
	}

	data, err := os.ReadFile(s.Path("key-1"))
	if err != nil {
		t.Fatalf("blob not readable: %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Error("blob content does not match input")
	}

	// No temp file left behind.
	if _, err := os.Stat(s.Path("key-1") + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after put")
	}
}

func TestPutRejectsUnsafeKeys(t *testing.T) {
	s, _ := New(t.TempDir())

	for _, key := range []string{"", ".", "..", "a/b", "..\\evil", "../escape"} {
		if _, err := s.Put(key, strings.NewReader("x")); err == nil {
			t.Errorf("key %q must be rejected", key)
		}
	}
}

func TestDelete(t *testing.T) {
	s, _ := New(t.TempDir())

	if _, err := s.Put("key-del", strings.NewReader("bye")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := s.Delete("key-del"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if s.Exists("key-del") {
		t.Error("blob still present after delete")
	}
}

func TestDeleteMissingIsNoOp(t *testing.T) {
	s, _ := New(t.TempDir())

	if err := s.Delete("never-existed"); err != nil {
		t.Errorf("deleting an absent blob must succeed, got %v", err)
	}
}

func TestNewStoredName(t *testing.T) {
	a := NewStoredName("report.pdf")
	b := NewStoredName("report.pdf")

	if a == b {
		t.Error("same original name must yield distinct stored names")
	}
	if a == "report.pdf" {
		t.Error("stored name must differ from the original name")
	}
	if !strings.HasSuffix(a, "report.pdf") {
		t.Errorf("stored name should keep the original base name: %s", a)
	}
}

func TestNewStoredNameSanitizesPaths(t *testing.T) {
	cases := []string{
		"../../etc/passwd",
		"/abs/path/file.txt",
		"dir\\win\\file.txt",
		"..",
		"",
	}
	for _, in := range cases {
		name := NewStoredName(in)
		if strings.ContainsAny(name, "/\\") {
			t.Errorf("stored name for %q contains a path separator: %s", in, name)
		}
		if strings.Contains(name, "..") && in != ".." {
			// The uuid never contains dots; ".." could only come from input.
			t.Errorf("stored name for %q contains ..: %s", in, name)
		}
		if _, err := (&BlobStore{dir: t.TempDir()}).Put(name, strings.NewReader("x")); err != nil {
			t.Errorf("generated name for %q rejected by Put: %v", in, err)
		}
	}
}
