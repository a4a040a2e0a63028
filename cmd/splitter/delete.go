package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/pepistrafforello/ps-splitter/pkg/chunked"
)

// runDelete removes every chunk with the given prefix from a directory.
// By default prompts for confirmation unless -force is specified.
func runDelete(args []string) int {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dir := fs.String("dir", "", "Directory holding the chunks (required)")
	prefix := fs.String("prefix", chunked.DefaultPrefix, "Chunk file name prefix")
	force := fs.Bool("force", false, "Skip confirmation prompt")

	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: splitter delete [options]

Remove every <prefix>NNNN.bin file from a directory. Other files are kept.

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

	existing, err := chunked.ExistingInDir(ctx, *dir, *prefix)
	if err != nil {
		return fail("%v", err)
	}
	if len(existing) == 0 {
		fmt.Fprintf(stderr, "[splitter] No chunks named %s*.bin in %s\n", *prefix, *dir)
		return ExitSuccess
	}

	// Confirm deletion unless -force
	if !*force {
		question := fmt.Sprintf("Delete %d chunk file(s) named %s*.bin from %s?", len(existing), *prefix, *dir)
		if !confirm(question) {
			fmt.Fprintln(stderr, "Cancelled")
			return ExitSuccess
		}
	}

	deleted, err := chunked.Delete(ctx, *dir, *prefix)
	if err != nil {
		return fail("%v", err)
	}

	fmt.Fprintln(stderr, successStyle.Render(fmt.Sprintf("[splitter] Deleted %d chunk(s) from %s", deleted, *dir)))
	return ExitSuccess
}
