package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pepistrafforello/ps-splitter/internal/config"
	"github.com/pepistrafforello/ps-splitter/internal/progress"
	"github.com/pepistrafforello/ps-splitter/pkg/chunked"
)

// runSplit splits a local file into numbered chunk files. Settings come from
// defaults, then the -config file, then SPLITTER_* variables, then flags.
func runSplit(args []string) int {
	fs := flag.NewFlagSet("split", flag.ContinueOnError)
	fs.SetOutput(stderr)

	output := fs.String("output", "", "Output directory (default <input dir>/<input name>_chunks)")
	chunkSize := fs.String("chunk-size", "", "Size of each chunk, e.g. 512KB, 1.5MB (default 1MB)")
	prefix := fs.String("prefix", "", "Chunk file name prefix (default chunk_)")
	overwrite := fs.Bool("overwrite", false, "Replace existing chunks without asking")
	quiet := fs.Bool("quiet", false, "Only print a one-line summary")
	configPath := fs.String("config", "", "YAML config file")

	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: splitter split [options] <input>

Split a binary file into numbered chunk files named <prefix>NNNN.bin.
Concatenating the chunks in order reproduces the input.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitFailure
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(stderr, "Error: expected a single input file")
		fs.Usage()
		return ExitFailure
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFromFile(*configPath)
		if err != nil {
			return fail("%v", err)
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return fail("%v", err)
	}

	flags := config.Config{
		Input:  fs.Arg(0),
		Output: *output,
		Prefix: *prefix,
	}
	if *chunkSize != "" {
		size, err := chunked.ParseSize(*chunkSize)
		if err != nil {
			return fail("invalid chunk size: %v", err)
		}
		if size <= 0 {
			return fail("invalid chunk size: %v", chunked.ErrInvalidChunkSize)
		}
		flags.ChunkSize = size
	}
	cfg = cfg.Merge(flags)
	// Merge cannot switch a boolean off, so apply the ones given on the command line.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "overwrite":
			cfg.Overwrite = *overwrite
		case "quiet":
			cfg.Quiet = *quiet
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, errorStyle.Render("Error: "+err.Error()))
		fs.Usage()
		return ExitFailure
	}

	input, err := filepath.Abs(cfg.Input)
	if err != nil {
		return fail("resolve input path: %v", err)
	}
	outDir := cfg.Output
	if outDir == "" {
		outDir = defaultOutputDir(input)
	}

	ctx, cancel := signalContext(func() {
		fmt.Fprintln(stderr, "\n"+warnStyle.Render("[splitter] Received interrupt, stopping after the current chunk..."))
	})
	defer cancel()

	// Only an existing directory can hold chunks. Anything else is left to
	// Split, which reports it as a directory error.
	if info, err := os.Stat(outDir); err == nil && info.IsDir() && !cfg.Overwrite {
		existing, err := chunked.ExistingInDir(ctx, outDir, cfg.Prefix)
		if err != nil {
			return fail("%v", err)
		}
		if len(existing) > 0 {
			question := fmt.Sprintf("%d chunk file(s) named %s*.bin already exist in %s. Overwrite?",
				len(existing), cfg.Prefix, outDir)
			if !confirm(question) {
				fmt.Fprintln(stderr, "Cancelled")
				return ExitSuccess
			}
			cfg.Overwrite = true
		}
	}

	// Header details are best effort; Split reports a bad input itself.
	var totalSize int64
	var totalChunks int
	if info, err := os.Stat(input); err == nil && info.Mode().IsRegular() {
		totalSize = info.Size()
		totalChunks, _ = chunked.Count(totalSize, cfg.ChunkSize)
	}
	contentType := ""
	if mt, err := mimetype.DetectFile(input); err == nil {
		contentType = mt.String()
	}

	reporter := progress.NewReporter(progress.Options{
		Source:      input,
		Dest:        outDir,
		ContentType: contentType,
		TotalSize:   totalSize,
		TotalChunks: totalChunks,
		ChunkSize:   cfg.ChunkSize,
		Quiet:       cfg.Quiet,
		Output:      stdout,
	})
	reporter.Start()

	res, err := chunked.Split(ctx, input, outDir, cfg.ChunkSize,
		chunked.WithPrefix(cfg.Prefix),
		chunked.WithOverwrite(cfg.Overwrite),
		chunked.WithProgress(reporter),
	)
	if err != nil {
		switch {
		case chunked.IsCancelled(err):
			fmt.Fprintln(stderr, "Cancelled")
			return ExitSuccess
		case ctx.Err() != nil:
			fmt.Fprintln(stderr, warnStyle.Render("[splitter] Split interrupted, "+keptSummary(reporter, outDir)))
			return ExitFailure
		}
		if errors.Is(err, chunked.ErrIOFailure) {
			fail("%v", err)
			fmt.Fprintln(stderr, dimStyle.Render("[splitter] "+keptSummary(reporter, outDir)))
			return ExitFailure
		}
		return fail("%v", err)
	}

	reporter.Finish(res.Chunks, res.Bytes)
	if !cfg.Quiet {
		fmt.Fprintln(stderr, successStyle.Render(fmt.Sprintf("[splitter] Split complete: %s", outDir)))
	}
	return ExitSuccess
}

// keptSummary describes the chunks a failed or interrupted split left behind.
func keptSummary(r *progress.Reporter, outDir string) string {
	return fmt.Sprintf("%d complete chunk(s), %s (%.1f%%), kept in %s",
		r.CompletedChunks(), progress.FormatBytes(r.CompletedBytes()), r.Percent(), outDir)
}

// defaultOutputDir returns <dir>/<name without extension>_chunks for input.
func defaultOutputDir(input string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		name = base
	}
	return filepath.Join(filepath.Dir(input), name+"_chunks")
}
