package chunked

import "fmt"

// Span is one entry of a chunk plan: the byte range of the input that
// ends up in chunk Index.
type Span struct {
	Index  int
	Offset int64
	Length int64
}

// Plan computes the chunk boundaries for an input of total bytes split
// into chunkSize pieces. Every span is chunkSize long except possibly the
// last. An empty input has an empty plan.
func Plan(total, chunkSize int64) ([]Span, error) {
	n, err := Count(total, chunkSize)
	if err != nil {
		return nil, err
	}

	spans := make([]Span, n)
	for i := range spans {
		offset := int64(i) * chunkSize
		length := chunkSize
		if offset+length > total {
			length = total - offset
		}
		spans[i] = Span{Index: i, Offset: offset, Length: length}
	}
	return spans, nil
}

// Count returns the number of chunks an input of total bytes produces.
func Count(total, chunkSize int64) (int, error) {
	if chunkSize <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChunkSize, chunkSize)
	}
	if total < 0 {
		return 0, fmt.Errorf("%w: negative size %d", ErrInvalidInput, total)
	}
	return int((total + chunkSize - 1) / chunkSize), nil
}

// ChunkName returns the file name of chunk idx. Indices are zero-padded
// to four digits and widen past 9999.
func ChunkName(prefix string, idx int) string {
	return fmt.Sprintf("%s%04d.bin", prefix, idx)
}
