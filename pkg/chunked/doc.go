// Package chunked splits a file into sequentially numbered fixed-size chunk
// files and reads such chunk sets back.
//
// The output is raw: no header, no manifest, no checksum. Concatenating the
// chunks in index order reproduces the input byte for byte.
//
// # Splitting
//
// Use [ParseSize] to turn a string like "1MB" into a byte count, then
// [Split] to write the chunks:
//
//	size, err := chunked.ParseSize("1MB")
//	res, err := chunked.Split(ctx, "/data/disk.img", "/data/disk_chunks", size,
//	    chunked.WithPrefix("chunk_"),
//	    chunked.WithProgress(reporter),
//	)
//
// Options:
//   - [WithPrefix]: chunk file name prefix (default "chunk_")
//   - [WithOverwrite]: replace existing chunks without asking
//   - [WithConfirm]: ask before replacing existing chunks
//   - [WithProgress]: receive a [ChunkEvent] per chunk
//   - [WithBufferSize]: cap on the copy buffer (default 8 MiB)
//
// [SplitReader] runs the same pass over any io.Reader into any
// gocloud.dev/blob bucket.
//
// # Existing Chunks
//
// When chunks with the same prefix already exist and overwriting is not
// allowed, Split returns [ErrCancelled] without touching anything unless
// the [WithConfirm] callback agrees. Callers that prompt interactively can
// ask up front with [WouldCollide] and pass the answer via [WithOverwrite].
//
// # Errors
//
// Setup errors ([ErrInvalidChunkSize], [ErrInvalidInput], [*DirectoryError])
// are returned before any chunk is written. An [*IOError] mid-pass leaves
// the chunks written so far on disk and reports how many there were.
//
// # Reading
//
// Use [Open] to stream a chunk set back in index order, [Validate] to check
// its numbering and sizes, and [Delete] to remove it.
//
// # Layout
//
//	{dir}/{prefix}0000.bin
//	{dir}/{prefix}0001.bin
//	...
//	{dir}/{prefix}9999.bin
//	{dir}/{prefix}10000.bin
package chunked
