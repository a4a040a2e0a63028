package chunked

import (
	"context"
	"fmt"

	"gocloud.dev/blob"
)

// ValidationResult contains the results of validating a chunk set.
type ValidationResult struct {
	Valid          bool     // true if numbering is contiguous and sizes are consistent
	TotalSize      int64    // sum of all chunk sizes
	ChunkSize      int64    // size of the first chunk
	ChunkCount     int      // number of chunks found
	MissingChunks  int      // number of gaps in the numbering
	SizeMismatches int      // number of chunks whose size breaks the plan
	Errors         []string // detailed error messages
}

// Validate checks that the chunk set with prefix in dir is structurally
// complete: indices run from 0 without gaps, every chunk but the last has
// the size of the first, and the last is non-empty and no larger.
// Chunk contents are not read.
//
// Returns an error if:
//   - prefix is unusable (ErrInvalidInput)
//   - dir does not exist (error wraps os.ErrNotExist)
//   - dir cannot be listed (permission error)
//   - The context is cancelled
//
// Note: gaps and size problems are NOT returned as errors.
// They are reported in the ValidationResult with Valid=false.
func Validate(ctx context.Context, dir, prefix string) (*ValidationResult, error) {
	if err := ValidatePrefix(prefix); err != nil {
		return nil, err
	}

	bucket, err := openExistingDir(dir)
	if err != nil {
		return nil, err
	}
	defer bucket.Close()

	return ValidateBucket(ctx, bucket, prefix)
}

// ValidateBucket is Validate for an existing bucket handle.
func ValidateBucket(ctx context.Context, bucket *blob.Bucket, prefix string) (*ValidationResult, error) {
	set, err := List(ctx, bucket, prefix)
	if err != nil {
		return nil, err
	}
	return validateSet(set), nil
}

func validateSet(set *Set) *ValidationResult {
	result := &ValidationResult{
		Valid:      true,
		TotalSize:  set.TotalSize(),
		ChunkCount: len(set.Entries),
		Errors:     make([]string, 0),
	}

	if len(set.Entries) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("no chunks named %s####.bin", set.Prefix))
		return result
	}

	result.ChunkSize = set.Entries[0].Size
	if result.ChunkSize == 0 {
		result.Valid = false
		result.SizeMismatches++
		result.Errors = append(result.Errors,
			fmt.Sprintf("chunk %s is empty", set.Entries[0].Name))
	}

	// Check numbering
	next := 0
	for _, e := range set.Entries {
		if e.Index > next {
			result.Valid = false
			result.MissingChunks += e.Index - next
			for i := next; i < e.Index; i++ {
				result.Errors = append(result.Errors,
					fmt.Sprintf("chunk %d missing: %s", i, ChunkName(set.Prefix, i)))
			}
		}
		next = e.Index + 1
	}

	// Check sizes against the plan implied by the first chunk
	last := len(set.Entries) - 1
	for i, e := range set.Entries[1:] {
		pos := i + 1
		switch {
		case pos < last && e.Size != result.ChunkSize:
			result.Valid = false
			result.SizeMismatches++
			result.Errors = append(result.Errors,
				fmt.Sprintf("chunk %s size mismatch: expected %d, got %d", e.Name, result.ChunkSize, e.Size))
		case pos == last && (e.Size == 0 || e.Size > result.ChunkSize):
			result.Valid = false
			result.SizeMismatches++
			result.Errors = append(result.Errors,
				fmt.Sprintf("final chunk %s size %d outside (0, %d]", e.Name, e.Size, result.ChunkSize))
		}
	}

	return result
}
