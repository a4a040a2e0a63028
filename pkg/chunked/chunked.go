package chunked

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"
)

// DefaultPrefix is the chunk file name prefix used when none is given.
const DefaultPrefix = "chunk_"

// DefaultBufferSize caps the copy buffer so very large chunk sizes do not
// need a buffer of the same size.
const DefaultBufferSize = 8 * 1024 * 1024

// chunkContentType is set on every chunk so drivers do not sniff content.
const chunkContentType = "application/octet-stream"

// Result summarises a split. It is returned on failure as well, holding
// the chunks written before the error.
type Result struct {
	Dir    string // output directory, empty for SplitReader
	Chunks int    // number of chunk files written
	Bytes  int64  // total bytes written across all chunks
}

// ChunkEvent is emitted to a Progress sink after each chunk is committed.
type ChunkEvent struct {
	Index   int     // zero-based index of the chunk just written
	Count   int     // chunks written so far (Index + 1)
	Name    string  // chunk file name
	Size    int64   // bytes in this chunk
	Written int64   // bytes written so far
	Total   int64   // input size, 0 if unknown
	Percent float64 // Written/Total*100 rounded to one decimal, 0 if Total is unknown
}

// Progress receives one event per chunk written.
type Progress interface {
	ChunkWritten(ev ChunkEvent)
}

// Options configures a split.
type Options struct {
	Prefix     string
	Overwrite  bool
	Progress   Progress
	Confirm    func(existing []string) bool
	BufferSize int
}

// Option is a functional option for configuring a split.
type Option func(*Options)

// WithPrefix sets the chunk file name prefix (default "chunk_").
func WithPrefix(prefix string) Option {
	return func(o *Options) {
		o.Prefix = prefix
	}
}

// WithOverwrite allows existing chunks with the same prefix to be replaced
// without asking.
func WithOverwrite(overwrite bool) Option {
	return func(o *Options) {
		o.Overwrite = overwrite
	}
}

// WithProgress sets a sink that is told about every chunk written.
func WithProgress(p Progress) Option {
	return func(o *Options) {
		o.Progress = p
	}
}

// WithConfirm sets the callback consulted when existing chunks are found
// and overwrite is not allowed. It receives the colliding file names and
// returns true to overwrite. Without a callback the split is cancelled.
func WithConfirm(confirm func(existing []string) bool) Option {
	return func(o *Options) {
		o.Confirm = confirm
	}
}

// WithBufferSize sets the copy buffer size. The buffer never exceeds the
// chunk size.
func WithBufferSize(n int) Option {
	return func(o *Options) {
		o.BufferSize = n
	}
}

func buildOptions(options []Option) Options {
	opts := Options{
		Prefix:     DefaultPrefix,
		BufferSize: DefaultBufferSize,
	}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	return opts
}

// ValidatePrefix reports whether prefix can be used as the leading part of
// chunk file names. Besides path separators it rejects anything the
// directory bucket stores under an escaped name: control characters,
// invalid UTF-8 and the "__0x" escape marker. Such names would list back
// differently from how they were written.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("%w: empty chunk prefix", ErrInvalidInput)
	}
	if strings.ContainsAny(prefix, `/\`) || prefix == "." || prefix == ".." {
		return fmt.Errorf("%w: chunk prefix %q is not a plain file name", ErrInvalidInput, prefix)
	}
	if !utf8.ValidString(prefix) {
		return fmt.Errorf("%w: chunk prefix %q is not valid UTF-8", ErrInvalidInput, prefix)
	}
	for _, r := range prefix {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: chunk prefix %q contains a control character", ErrInvalidInput, prefix)
		}
	}
	if strings.Contains(strings.ToLower(prefix), "__0x") {
		return fmt.Errorf("%w: chunk prefix %q contains the reserved sequence __0x", ErrInvalidInput, prefix)
	}
	return nil
}

// Split writes inputPath as numbered chunk files of chunkSize bytes into
// outputDir, creating the directory and its parents if needed.
// inputPath is expected to be already resolved by the caller.
//
// Returns:
//   - ErrInvalidChunkSize if chunkSize is not positive
//   - ErrInvalidInput if inputPath is not a regular file or the prefix is unusable
//   - *DirectoryError if outputDir cannot be created
//   - ErrCancelled if chunks with the same prefix exist and overwriting was declined
//   - *IOError if reading or writing fails mid-pass
//
// All errors except *IOError and context cancellation are returned before
// any chunk is written.
func Split(ctx context.Context, inputPath, outputDir string, chunkSize int64, options ...Option) (*Result, error) {
	opts := buildOptions(options)
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, chunkSize)
	}
	if err := ValidatePrefix(opts.Prefix); err != nil {
		return nil, err
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrInvalidInput, inputPath)
	}

	bucket, err := OpenDir(outputDir)
	if err != nil {
		return nil, err
	}
	defer bucket.Close()

	in, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	defer in.Close()

	res, err := SplitReader(ctx, bucket, in, info.Size(), chunkSize, options...)
	if res != nil {
		res.Dir = outputDir
	}
	return res, err
}

// SplitReader writes r as numbered chunks of chunkSize bytes into bucket.
// size is the expected input length used for progress percentages; pass 0
// if it is unknown. The context is checked between chunks only, so a
// cancelled split never leaves a half-written chunk behind.
func SplitReader(ctx context.Context, bucket *blob.Bucket, r io.Reader, size, chunkSize int64, options ...Option) (*Result, error) {
	opts := buildOptions(options)
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, chunkSize)
	}
	if err := ValidatePrefix(opts.Prefix); err != nil {
		return nil, err
	}

	existing, err := Existing(ctx, bucket, opts.Prefix)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 && !opts.Overwrite {
		if opts.Confirm == nil || !opts.Confirm(existing) {
			return nil, ErrCancelled
		}
	}

	bufSize := int64(opts.BufferSize)
	if chunkSize < bufSize {
		bufSize = chunkSize
	}

	s := &splitter{
		bucket:    bucket,
		in:        bufio.NewReader(r),
		buf:       make([]byte, bufSize),
		opts:      opts,
		size:      size,
		chunkSize: chunkSize,
	}
	return s.run(ctx)
}

// splitter holds the state of one sequential pass.
type splitter struct {
	bucket    *blob.Bucket
	in        *bufio.Reader
	buf       []byte
	opts      Options
	size      int64
	chunkSize int64

	result Result
}

func (s *splitter) run(ctx context.Context) (*Result, error) {
	for idx := 0; ; idx++ {
		if err := ctx.Err(); err != nil {
			return &s.result, fmt.Errorf("chunked: interrupted after %d chunks: %w", s.result.Chunks, err)
		}

		if _, err := s.in.Peek(1); err != nil {
			if err == io.EOF {
				return &s.result, nil
			}
			return &s.result, &IOError{Op: "read", Chunks: s.result.Chunks, Err: err}
		}

		name := ChunkName(s.opts.Prefix, idx)
		n, err := s.writeChunk(ctx, name)
		if err != nil {
			return &s.result, err
		}

		s.result.Chunks++
		s.result.Bytes += n

		if s.opts.Progress != nil {
			s.opts.Progress.ChunkWritten(ChunkEvent{
				Index:   idx,
				Count:   s.result.Chunks,
				Name:    name,
				Size:    n,
				Written: s.result.Bytes,
				Total:   s.size,
				Percent: percent(s.result.Bytes, s.size),
			})
		}
	}
}

// writeChunk copies up to chunkSize bytes into a new object called name.
// On failure the object write is aborted so nothing partial is committed.
func (s *splitter) writeChunk(ctx context.Context, name string) (int64, error) {
	// Chunk writes are not interrupted by ctx; cancellation is honoured at
	// the next chunk boundary.
	wctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()

	w, err := s.bucket.NewWriter(wctx, name, &blob.WriterOptions{
		ContentType: chunkContentType,
		BufferSize:  len(s.buf),
	})
	if err != nil {
		return 0, &IOError{Op: "write", Chunk: name, Chunks: s.result.Chunks, Err: err}
	}

	var written int64
	for written < s.chunkSize {
		p := s.buf
		if rem := s.chunkSize - written; rem < int64(len(p)) {
			p = p[:rem]
		}

		n, rerr := io.ReadFull(s.in, p)
		if n > 0 {
			if _, werr := w.Write(p[:n]); werr != nil {
				abort(cancel, w)
				return written, &IOError{Op: "write", Chunk: name, Chunks: s.result.Chunks, Err: werr}
			}
			written += int64(n)
		}
		if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
			break
		}
		if rerr != nil {
			abort(cancel, w)
			return written, &IOError{Op: "read", Chunk: name, Chunks: s.result.Chunks, Err: rerr}
		}
	}

	if err := w.Close(); err != nil {
		return written, &IOError{Op: "commit", Chunk: name, Chunks: s.result.Chunks, Err: err}
	}
	return written, nil
}

// abort cancels an in-flight object write. Closing a writer whose context
// is cancelled discards the data instead of committing it.
func abort(cancel context.CancelFunc, w *blob.Writer) {
	cancel()
	w.Close() // Best effort, the write error is what gets reported
}

func percent(written, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(written)/float64(total)*1000) / 10
}

// Existing returns the names of objects at the root of bucket that match
// {prefix}*.bin, sorted by name.
func Existing(ctx context.Context, bucket *blob.Bucket, prefix string) ([]string, error) {
	if err := ValidatePrefix(prefix); err != nil {
		return nil, err
	}

	var names []string
	iter := bucket.List(&blob.ListOptions{Prefix: prefix, Delimiter: "/"})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("chunked: list %s*.bin: %w", prefix, err)
		}
		if obj.IsDir || !strings.HasSuffix(obj.Key, ".bin") {
			continue
		}
		names = append(names, obj.Key)
	}
	sort.Strings(names)
	return names, nil
}

// ExistingInDir is Existing for a local directory. A directory that does
// not exist has no chunks and is not created.
func ExistingInDir(ctx context.Context, dir, prefix string) ([]string, error) {
	if err := ValidatePrefix(prefix); err != nil {
		return nil, err
	}
	bucket, err := openExistingDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer bucket.Close()

	return Existing(ctx, bucket, prefix)
}

// WouldCollide reports whether dir already holds chunks with prefix, i.e.
// whether a split into dir would replace files. Callers use it to ask for
// confirmation before calling Split.
func WouldCollide(ctx context.Context, dir, prefix string) (bool, error) {
	names, err := ExistingInDir(ctx, dir, prefix)
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// OpenDir opens dir as a bucket, creating it and any missing parents.
// Temporary files are created next to their targets and no attribute
// sidecar files are written, so the directory only ever holds chunks.
func OpenDir(dir string) (*blob.Bucket, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &DirectoryError{Dir: dir, Err: err}
	}
	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{
		CreateDir: true,
		NoTempDir: true,
		Metadata:  fileblob.MetadataDontWrite,
	})
	if err != nil {
		return nil, &DirectoryError{Dir: dir, Err: err}
	}
	return bucket, nil
}

// openExistingDir opens dir as a bucket without creating it. The error
// wraps os.ErrNotExist when dir is missing.
func openExistingDir(dir string) (*blob.Bucket, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("chunked: open %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidInput, dir)
	}
	return OpenDir(dir)
}

// isNotExist returns true if the error indicates the object doesn't exist.
func isNotExist(err error) bool {
	return gcerrors.Code(err) == gcerrors.NotFound
}
