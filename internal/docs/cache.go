package docs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic is the frame header of a zstd stream.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// LoadCorpus reads and parses a corpus file.
func LoadCorpus(path string) (*Corpus, error) {
	data, err := ReadCorpus(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// ReadCorpus returns the raw corpus JSON of a file. Files ending in .zst, or
// starting with a zstd frame header, are decompressed first.
func ReadCorpus(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus %s: %w", path, err)
	}

	if strings.HasSuffix(path, ".zst") || bytes.HasPrefix(data, zstdMagic) {
		data, err = decompress(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decompressing corpus %s: %w", path, err)
		}
	}
	return data, nil
}

// SaveCorpusCache compresses and saves raw corpus JSON to disk.
func SaveCorpusCache(data []byte, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating corpus cache dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	defer f.Close()

	w, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("writing compressed data: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}
	return nil
}

// HasCorpusCache checks whether a cached corpus exists on disk.
func HasCorpusCache(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func decompress(r io.Reader) ([]byte, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer decoder.Close()

	return io.ReadAll(decoder)
}
