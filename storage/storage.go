// Package storage is the blob store: a flat directory of files keyed by a
// server-generated stored name, decoupled from user-supplied filenames.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlobStore writes, serves, and removes blob files under a single directory.
type BlobStore struct {
	dir string
}

// New creates the blob directory if needed and returns the store.
func New(dir string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob directory %s: %w", dir, err)
	}
	return &BlobStore{dir: dir}, nil
}

func (s *BlobStore) Dir() string {
	return s.dir
}

// Path returns the on-disk location for a stored name.
func (s *BlobStore) Path(storedName string) string {
	return filepath.Join(s.dir, storedName)
}

// Put streams r to disk under storedName and returns the byte count.
// Pattern: temp file → write → fsync → atomic rename, so a crash mid-write
// never leaves a partial blob under the final name.
func (s *BlobStore) Put(storedName string, r io.Reader) (int64, error) {
	if !validKey(storedName) {
		return 0, fmt.Errorf("invalid stored name %q", storedName)
	}

	dst := filepath.Join(s.dir, storedName)
	tmp := dst + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("create temp file for %s: %w", storedName, err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return 0, fmt.Errorf("write blob %s: %w", storedName, err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return 0, fmt.Errorf("sync blob %s: %w", storedName, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("close blob %s: %w", storedName, err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("rename blob %s: %w", storedName, err)
	}

	return size, nil
}

// Delete removes the blob. A missing blob is a no-op success: the registry
// and the filesystem fail independently, and cleanup of one must never be
// blocked by the other already being gone.
func (s *BlobStore) Delete(storedName string) error {
	if !validKey(storedName) {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, storedName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", storedName, err)
	}
	return nil
}

// Exists reports whether a blob is present under storedName.
func (s *BlobStore) Exists(storedName string) bool {
	if !validKey(storedName) {
		return false
	}
	_, err := os.Stat(filepath.Join(s.dir, storedName))
	return err == nil
}

// NewStoredName generates a collision-free blob key for an upload:
// {unix-millis}-{uuid}-{sanitized original base name}. Two uploads of the
// same original name always get distinct keys.
func NewStoredName(originalName string) string {
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.New().String(), sanitize(originalName))
}

// sanitize reduces a user-supplied filename to a safe single path segment.
func sanitize(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(filepath.Clean("/" + name))
	if name == "/" || name == "." || name == "" {
		return "file"
	}
	return name
}

// validKey rejects keys that could escape the blob directory. Generated
// names always pass; this guards direct callers handing in raw input.
func validKey(storedName string) bool {
	if storedName == "" || storedName == "." || storedName == ".." {
		return false
	}
	if strings.ContainsAny(storedName, "/\\") {
		return false
	}
	return true
}
