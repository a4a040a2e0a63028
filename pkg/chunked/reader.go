package chunked

import (
	"context"
	"fmt"
	"io"

	"gocloud.dev/blob"
)

// Reader streams a chunk set in index order, reproducing the split
// input byte for byte.
type Reader struct {
	ctx         context.Context
	bucket      *blob.Bucket
	set         *Set
	ownsBucket  bool
	current     int
	currentRead io.ReadCloser
	closed      bool
}

// Open opens the chunk set with prefix in dir for reading.
// The caller must call Close when done.
func Open(ctx context.Context, dir, prefix string) (*Reader, error) {
	if err := ValidatePrefix(prefix); err != nil {
		return nil, err
	}

	bucket, err := openExistingDir(dir)
	if err != nil {
		return nil, err
	}

	set, err := List(ctx, bucket, prefix)
	if err != nil {
		bucket.Close()
		return nil, err
	}

	r := NewReader(ctx, bucket, set)
	r.ownsBucket = true
	return r, nil
}

// NewReader returns a Reader over set in an existing bucket handle.
// Closing the Reader does not close bucket.
func NewReader(ctx context.Context, bucket *blob.Bucket, set *Set) *Reader {
	return &Reader{
		ctx:    ctx,
		bucket: bucket,
		set:    set,
	}
}

// Set returns the chunk set being read.
func (r *Reader) Set() *Set {
	return r.set
}

// Read reads data from the concatenated chunks.
func (r *Reader) Read(p []byte) (n int, err error) {
	if r.closed {
		return 0, io.ErrClosedPipe
	}

	for {
		if r.currentRead != nil {
			n, err = r.currentRead.Read(p)
			if err == io.EOF {
				r.currentRead.Close()
				r.currentRead = nil
				if n > 0 {
					return n, nil
				}
				continue
			}
			return n, err
		}

		if r.current >= len(r.set.Entries) {
			return 0, io.EOF
		}

		rc, err := r.OpenChunk(r.ctx, r.current)
		if err != nil {
			return 0, err
		}
		r.currentRead = rc
		r.current++
	}
}

// OpenChunk opens the chunk at position i of the set for reading.
// The caller must close the returned reader.
func (r *Reader) OpenChunk(ctx context.Context, i int) (io.ReadCloser, error) {
	if i < 0 || i >= len(r.set.Entries) {
		return nil, fmt.Errorf("chunked: chunk position %d out of range [0, %d)", i, len(r.set.Entries))
	}

	entry := r.set.Entries[i]
	rc, err := r.bucket.NewReader(ctx, entry.Name, nil)
	if err != nil {
		if isNotExist(err) {
			return nil, fmt.Errorf("chunked: chunk %s disappeared: %w", entry.Name, err)
		}
		return nil, fmt.Errorf("chunked: open chunk %s: %w", entry.Name, err)
	}
	return rc, nil
}

// Close closes the reader and releases resources.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	if r.currentRead != nil {
		r.currentRead.Close()
		r.currentRead = nil
	}

	if r.ownsBucket {
		return r.bucket.Close()
	}
	return nil
}
