// Package cas is a content-addressed, zstd-compressed store for rendered
// page bodies. Entries are keyed by the hash of their Markdown source, so a
// rebuild only renders bodies that changed.
package cas

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Key hashes content into a store key.
func Key(content string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
}

// path returns the sharded file path for a hash: <dir>/<first2>/<rest>.html.zst
func (s *Store) path(hash string) string {
	return filepath.Join(s.dir, hash[:2], hash[2:]+".html.zst")
}

// Has reports whether an entry exists for hash.
func (s *Store) Has(hash string) bool {
	if len(hash) < 3 {
		return false
	}
	_, err := os.Stat(s.path(hash))
	return err == nil
}

// Write stores content under hash. Existing entries are left untouched.
func (s *Store) Write(hash, content string) error {
	if len(hash) < 3 {
		return fmt.Errorf("invalid CAS key %q", hash)
	}
	if s.Has(hash) {
		return nil
	}
	p := s.path(hash)

	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("creating CAS directory: %w", err)
	}

	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		w.Close()
		return fmt.Errorf("compressing CAS content: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}

	// Write to a temp file first so concurrent builders never read a torn entry.
	tmp, err := os.CreateTemp(filepath.Dir(p), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating CAS temp file: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing CAS file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing CAS file: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("committing CAS file: %w", err)
	}
	return nil
}

// Read retrieves content from the store by hash.
func (s *Store) Read(hash string) (string, error) {
	if len(hash) < 3 {
		return "", fmt.Errorf("invalid CAS key %q", hash)
	}
	f, err := os.Open(s.path(hash))
	if err != nil {
		return "", fmt.Errorf("reading CAS file %s: %w", hash, err)
	}
	defer f.Close()

	r, err := zstd.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("decompressing CAS file %s: %w", hash, err)
	}
	return string(data), nil
}

// Clear removes every entry.
func (s *Store) Clear() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("clearing CAS: %w", err)
	}
	return nil
}
