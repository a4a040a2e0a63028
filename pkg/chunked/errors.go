package chunked

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when the input path is missing, is not a
	// regular file, or when a chunk prefix cannot be used as a file name.
	ErrInvalidInput = errors.New("chunked: invalid input")

	// ErrInvalidFormat is returned by ParseSize for strings that are not
	// of the form <number>[B|KB|MB|GB].
	ErrInvalidFormat = errors.New("chunked: invalid size format")

	// ErrInvalidChunkSize is returned when the resolved chunk size is not positive.
	ErrInvalidChunkSize = errors.New("chunked: chunk size must be positive")

	// ErrCancelled is returned when existing chunks were found and the
	// caller declined to overwrite them. Nothing was written or modified.
	// It signals a cancelled run, not a failure.
	ErrCancelled = errors.New("chunked: cancelled, existing chunks left untouched")

	// ErrDirectory matches any *DirectoryError via errors.Is.
	ErrDirectory = errors.New("chunked: cannot create output directory")

	// ErrIOFailure matches any *IOError via errors.Is.
	ErrIOFailure = errors.New("chunked: I/O failure")
)

// DirectoryError is returned when the output directory cannot be created
// or opened. No chunk has been written when it is returned.
type DirectoryError struct {
	Dir string
	Err error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("chunked: create output directory %s: %v", e.Dir, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// Is reports ErrDirectory as a match so callers can test the category
// without errors.As.
func (e *DirectoryError) Is(target error) bool { return target == ErrDirectory }

// IOError is returned when reading the input or writing a chunk fails
// mid-pass. Chunks holds the number of chunks that were fully written
// before the failure; they are left on disk.
//
// Use errors.As to extract it:
//
//	var ioErr *chunked.IOError
//	if errors.As(err, &ioErr) {
//	    fmt.Println(ioErr.Chunks, "chunks written before", ioErr.Op, "failed")
//	}
type IOError struct {
	Op     string // "read", "write" or "commit"
	Chunk  string // chunk being processed when the failure happened
	Chunks int    // chunks completed before the failure
	Err    error
}

func (e *IOError) Error() string {
	if e.Chunk == "" {
		return fmt.Sprintf("chunked: %s failed after %d chunks: %v", e.Op, e.Chunks, e.Err)
	}
	return fmt.Sprintf("chunked: %s %s failed after %d chunks: %v", e.Op, e.Chunk, e.Chunks, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is reports ErrIOFailure as a match.
func (e *IOError) Is(target error) bool { return target == ErrIOFailure }

// IsCancelled reports whether err means the user declined to overwrite
// existing chunks.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
