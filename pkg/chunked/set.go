package chunked

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gocloud.dev/blob"
)

// Entry describes one chunk file found in a chunk set.
type Entry struct {
	Index int
	Name  string
	Size  int64
}

// Set is the chunk set with a given prefix found in a bucket, ordered by
// index. Gaps in the numbering are kept as-is; use Validate to detect them.
type Set struct {
	Prefix  string
	Entries []Entry
}

// TotalSize returns the sum of all chunk sizes.
func (s *Set) TotalSize() int64 {
	var total int64
	for _, e := range s.Entries {
		total += e.Size
	}
	return total
}

// List discovers the chunks named {prefix}<digits>.bin at the root of
// bucket. Objects that match the prefix but not the numbering are ignored.
func List(ctx context.Context, bucket *blob.Bucket, prefix string) (*Set, error) {
	if err := ValidatePrefix(prefix); err != nil {
		return nil, err
	}

	set := &Set{Prefix: prefix}

	iter := bucket.List(&blob.ListOptions{Prefix: prefix, Delimiter: "/"})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("chunked: list %s: %w", prefix, err)
		}
		if obj.IsDir {
			continue
		}
		idx, ok := parseIndex(prefix, obj.Key)
		if !ok {
			continue
		}
		set.Entries = append(set.Entries, Entry{Index: idx, Name: obj.Key, Size: obj.Size})
	}

	sort.Slice(set.Entries, func(i, j int) bool {
		return set.Entries[i].Index < set.Entries[j].Index
	})
	return set, nil
}

// parseIndex extracts the chunk index from a name of the form
// {prefix}<digits>.bin.
func parseIndex(prefix, name string) (int, bool) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".bin") {
		return 0, false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".bin")
	if len(digits) < 4 {
		return 0, false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	// Reject names that would not be produced by ChunkName, e.g. 00012.
	if ChunkName(prefix, idx) != name {
		return 0, false
	}
	return idx, true
}
