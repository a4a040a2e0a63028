// Package config defines configuration structures for the splitter CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (SPLITTER_ prefix)
//   - YAML configuration file
//
// Precedence is defaults < file < environment < flags.
//
// # Structure
//
//	type Config struct {
//	    Input     string
//	    Output    string
//	    ChunkSize int64
//	    Prefix    string
//	    Overwrite bool
//	    Quiet     bool
//	}
//
// # File Format
//
//	output: /data/disk_chunks
//	chunk_size: 512KB
//	prefix: part_
//	overwrite: false
//	quiet: true
package config
