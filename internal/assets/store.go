// Package assets manages the public asset root: the directory tree that
// holds transformed media files and the per-content-type JSON manifests.
package assets

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Store is rooted at the public asset directory. All paths passed to its
// methods are relative to that root and use forward slashes.
type Store struct {
	root string // absolute path to the public asset root
}

// NewStore creates a Store rooted at the given directory.
// The directory must already exist.
func NewStore(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("assets: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("assets: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets: root is not a directory: %s", abs)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute path of the public asset root.
func (s *Store) Root() string {
	return s.root
}

// safePath resolves a relative path against the root and rejects any
// result that escapes it (directory traversal).
func (s *Store) safePath(rel string) (string, error) {
	if rel == "" {
		return s.root, nil
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("assets: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(s.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("assets: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, s.root+string(os.PathSeparator)) && abs != s.root {
		return "", fmt.Errorf("assets: path escapes asset root: %s", rel)
	}
	return abs, nil
}

// Abs returns the absolute path for a root-relative asset path.
func (s *Store) Abs(rel string) (string, error) {
	return s.safePath(rel)
}

// EnsureDir creates dir (and parents) under the root.
func (s *Store) EnsureDir(dir string) error {
	abs, err := s.safePath(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("assets: mkdir %s: %w", dir, err)
	}
	return nil
}

// Read returns the raw bytes of an asset file.
func (s *Store) Read(rel string) ([]byte, error) {
	abs, err := s.safePath(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", rel, err)
	}
	return data, nil
}

// Stat returns file info for an asset file.
func (s *Store) Stat(rel string) (fs.FileInfo, error) {
	abs, err := s.safePath(rel)
	if err != nil {
		return nil, err
	}
	return os.Stat(abs)
}

// Exists reports whether the asset file is present on disk.
func (s *Store) Exists(rel string) bool {
	abs, err := s.safePath(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

// Write atomically writes content: tmp file, fsync, rename.
func (s *Store) Write(rel string, content []byte) error {
	_, err := s.write(rel, bytes.NewReader(content))
	return err
}

// WriteFrom atomically streams r into the asset file, overwriting any
// existing file, and returns the byte count written.
func (s *Store) WriteFrom(rel string, r io.Reader) (int64, error) {
	return s.write(rel, r)
}

func (s *Store) write(rel string, r io.Reader) (int64, error) {
	abs, err := s.safePath(rel)
	if err != nil {
		return 0, err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("assets: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".sivupaja-tmp-*")
	if err != nil {
		return 0, fmt.Errorf("assets: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	n, err := io.Copy(tmp, r)
	if err != nil {
		return 0, fmt.Errorf("assets: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("assets: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("assets: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return 0, fmt.Errorf("assets: rename: %w", err)
	}
	success = true
	return n, nil
}

// Rename moves an asset file within the root.
func (s *Store) Rename(oldRel, newRel string) error {
	absOld, err := s.safePath(oldRel)
	if err != nil {
		return err
	}
	absNew, err := s.safePath(newRel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absNew), 0o755); err != nil {
		return fmt.Errorf("assets: mkdir for rename: %w", err)
	}
	if err := os.Rename(absOld, absNew); err != nil {
		return fmt.Errorf("assets: rename: %w", err)
	}
	return nil
}

// Remove deletes an asset file. Missing files are not an error.
func (s *Store) Remove(rel string) error {
	abs, err := s.safePath(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("assets: remove %s: %w", rel, err)
	}
	return nil
}
