// Package testutils provides shared test helpers for splitting tests.
package testutils

import (
	"bytes"
	"crypto/rand"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// GenerateTestData generates test data of the given size.
// For sizes <= 10MB, uses a deterministic pattern. For larger sizes, uses random data.
func GenerateTestData(t *testing.T, size int64) []byte {
	t.Helper()
	data := make([]byte, size)
	if size <= 10*1024*1024 {
		for i := range data {
			// 251 is prime, so chunk boundaries never line up with the pattern.
			data[i] = byte(i % 251)
		}
	} else {
		if _, err := rand.Read(data); err != nil {
			t.Fatalf("generate random data: %v", err)
		}
	}
	return data
}

// WriteTestFile writes data to name inside a fresh temp directory and
// returns the file path.
func WriteTestFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	return path
}

// ReadChunks returns the contents of every file in dir matching
// {prefix}*.bin, keyed by file name.
func ReadChunks(t *testing.T, dir, prefix string) map[string][]byte {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, prefix+"*.bin"))
	if err != nil {
		t.Fatalf("glob chunks: %v", err)
	}
	chunks := make(map[string][]byte, len(matches))
	for _, m := range matches {
		data, err := os.ReadFile(m)
		if err != nil {
			t.Fatalf("read chunk %s: %v", m, err)
		}
		chunks[filepath.Base(m)] = data
	}
	return chunks
}

// ConcatChunks concatenates the chunk files in dir in name order. Chunk
// names are zero-padded, so name order is index order below 10000 chunks.
func ConcatChunks(t *testing.T, dir, prefix string) []byte {
	t.Helper()
	chunks := ReadChunks(t, dir, prefix)
	names := make([]string, 0, len(chunks))
	for name := range chunks {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	for _, name := range names {
		buf.Write(chunks[name])
	}
	return buf.Bytes()
}

// ListDir returns the names of all entries in dir, sorted.
func ListDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// CompareReaderToData compares reader output with expected data in chunks.
// This is memory-efficient for large files.
func CompareReaderToData(t *testing.T, reader io.Reader, expected []byte) {
	t.Helper()

	chunkSize := 1024 * 1024 // 1MB
	buf := make([]byte, chunkSize)
	offset := 0

	for {
		n, err := reader.Read(buf)
		if n > 0 {
			if offset+n > len(expected) {
				t.Fatalf("read more data than expected: offset=%d, n=%d, expected len=%d",
					offset, n, len(expected))
			}
			if !bytes.Equal(buf[:n], expected[offset:offset+n]) {
				t.Fatalf("data mismatch at offset %d", offset)
			}
			offset += n
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read error at offset %d: %v", offset, err)
		}
	}

	if offset != len(expected) {
		t.Fatalf("incomplete read: got %d bytes, want %d", offset, len(expected))
	}
}
