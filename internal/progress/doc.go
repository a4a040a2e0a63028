// Package progress prints human-readable progress for a split.
//
// A [Reporter] implements chunked.Progress: it prints a header, one status
// line per chunk written and a final summary. In quiet mode only a single
// summary line is printed.
//
// # Usage
//
//	reporter := progress.NewReporter(progress.Options{
//	    Source:      input,
//	    Dest:        outputDir,
//	    TotalSize:   info.Size(),
//	    TotalChunks: count,
//	    ChunkSize:   chunkSize,
//	})
//
//	reporter.Start()
//	res, err := chunked.Split(ctx, input, outputDir, chunkSize, chunked.WithProgress(reporter))
//	reporter.Finish(res.Chunks, res.Bytes)
//
// # Output Format
//
//	[splitter] Splitting: /data/disk.img (application/octet-stream)
//	[splitter] Total size: 2.4 MiB | Chunks: 3 x 1.0 MiB | Output: /data/disk_chunks
//	[splitter] Wrote chunk_0000.bin (1.0 MiB) | 1/3 | 41.9%
//	[splitter] Wrote chunk_0001.bin (1.0 MiB) | 2/3 | 83.9%
//	[splitter] Wrote chunk_0002.bin (393 KiB) | 3/3 | 100.0%
//	[splitter] Done: 3 chunks | 2500000 bytes (2.4 MiB) | Time: 0s | Average speed: 2.4 MiB/s
package progress
