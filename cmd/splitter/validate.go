package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/pepistrafforello/ps-splitter/internal/progress"
	"github.com/pepistrafforello/ps-splitter/pkg/chunked"
)

// runValidate checks that a chunk set is complete and its sizes are
// consistent. Chunk contents are not read.
func runValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dir := fs.String("dir", "", "Directory holding the chunks (required)")
	prefix := fs.String("prefix", chunked.DefaultPrefix, "Chunk file name prefix")

	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: splitter validate [options]

Verify that chunk numbering starts at 0 with no gaps and that every chunk
but the last has the same size.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitFailure
	}

	if *dir == "" {
		fmt.Fprintln(stderr, "Error: -dir is required")
		fs.Usage()
		return ExitFailure
	}

	ctx, cancel := signalContext(nil)
	defer cancel()

	result, err := chunked.Validate(ctx, *dir, *prefix)
	if err != nil {
		return fail("%v", err)
	}

	fmt.Fprintf(stdout, "Directory: %s\n", *dir)
	fmt.Fprintf(stdout, "Prefix: %s\n", *prefix)
	fmt.Fprintf(stdout, "Total size: %d bytes (%s)\n", result.TotalSize, progress.FormatBytes(result.TotalSize))
	fmt.Fprintf(stdout, "Chunks: %d x %s\n", result.ChunkCount, chunked.FormatSize(result.ChunkSize))

	if result.Valid {
		fmt.Fprintln(stdout, successStyle.Render("Status: VALID"))
		return ExitSuccess
	}

	fmt.Fprintln(stdout, errorStyle.Render("Status: INVALID"))
	fmt.Fprintf(stdout, "Missing chunks: %d\n", result.MissingChunks)
	fmt.Fprintf(stdout, "Size mismatches: %d\n", result.SizeMismatches)

	if len(result.Errors) > 0 {
		fmt.Fprintln(stdout, "\nErrors:")
		for _, e := range result.Errors {
			fmt.Fprintf(stdout, "  - %s\n", e)
		}
	}

	return ExitFailure
}
