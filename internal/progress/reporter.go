package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/atomic"

	"github.com/pepistrafforello/ps-splitter/pkg/chunked"
)

var _ chunked.Progress = (*Reporter)(nil)

// Options configures the progress reporter.
type Options struct {
	// Source is the input file being split (for display).
	Source string

	// Dest is the output directory (for display).
	Dest string

	// ContentType is the detected type of the input (for display).
	ContentType string

	// TotalSize is the input size in bytes.
	TotalSize int64

	// TotalChunks is the number of chunks the split will produce.
	TotalChunks int

	// ChunkSize is the size of each chunk (for display).
	ChunkSize int64

	// Quiet suppresses everything but the final summary line.
	Quiet bool

	// Output is where to write progress output.
	// Default: os.Stdout
	Output io.Writer
}

// Reporter outputs human-readable progress information.
type Reporter struct {
	opts Options
	now  func() time.Time

	completedBytes  *atomic.Int64
	completedChunks *atomic.Int32
	lastPercent     *atomic.Float64

	mu        sync.Mutex
	startTime time.Time
	finished  bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Reporter{
		opts:            opts,
		now:             time.Now,
		completedBytes:  atomic.NewInt64(0),
		completedChunks: atomic.NewInt32(0),
		lastPercent:     atomic.NewFloat64(0),
	}
}

// Start records the start time and prints the header.
func (r *Reporter) Start() {
	r.mu.Lock()
	r.startTime = r.now()
	r.mu.Unlock()

	if r.opts.Quiet {
		return
	}

	if r.opts.ContentType != "" {
		fmt.Fprintf(r.opts.Output, "[splitter] Splitting: %s (%s)\n", r.opts.Source, r.opts.ContentType)
	} else {
		fmt.Fprintf(r.opts.Output, "[splitter] Splitting: %s\n", r.opts.Source)
	}
	fmt.Fprintf(r.opts.Output, "[splitter] Total size: %s | Chunks: %d x %s | Output: %s\n",
		formatBytes(r.opts.TotalSize),
		r.opts.TotalChunks,
		formatBytes(r.opts.ChunkSize),
		r.opts.Dest,
	)
}

// ChunkWritten records a completed chunk and prints a status line.
func (r *Reporter) ChunkWritten(ev chunked.ChunkEvent) {
	r.completedBytes.Store(ev.Written)
	r.completedChunks.Store(int32(ev.Count))
	r.lastPercent.Store(ev.Percent)

	if r.opts.Quiet {
		return
	}

	total := "?"
	if r.opts.TotalChunks > 0 {
		total = fmt.Sprintf("%d", r.opts.TotalChunks)
	}
	fmt.Fprintf(r.opts.Output, "[splitter] Wrote %s (%s) | %d/%s | %.1f%%\n",
		ev.Name,
		formatBytes(ev.Size),
		ev.Count,
		total,
		ev.Percent,
	)
}

// CompletedChunks returns the number of chunks reported so far.
func (r *Reporter) CompletedChunks() int {
	return int(r.completedChunks.Load())
}

// CompletedBytes returns the number of bytes reported so far.
func (r *Reporter) CompletedBytes() int64 {
	return r.completedBytes.Load()
}

// Percent returns the completion percentage of the last chunk event.
func (r *Reporter) Percent() float64 {
	return r.lastPercent.Load()
}

// Finish prints the final summary. It is printed once, in quiet mode too.
func (r *Reporter) Finish(chunks int, bytes int64) {
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return
	}
	r.finished = true
	start := r.startTime
	r.mu.Unlock()

	if r.opts.Quiet {
		fmt.Fprintf(r.opts.Output, "[splitter] %d chunks, %d bytes written to %s\n",
			chunks, bytes, r.opts.Dest)
		return
	}

	duration := r.now().Sub(start)
	fmt.Fprintf(r.opts.Output, "[splitter] Done: %d chunks | %d bytes (%s) | Time: %s | Average speed: %s/s\n",
		chunks,
		bytes,
		formatBytes(bytes),
		formatDuration(duration),
		formatBytes(speed(bytes, duration)),
	)
}

func speed(bytes int64, d time.Duration) int64 {
	if d <= 0 {
		return bytes
	}
	return int64(float64(bytes) / d.Seconds())
}

// formatBytes formats bytes as a human-readable string using IEC units.
func formatBytes(b int64) string {
	if b < 0 {
		return fmt.Sprintf("%d B", b)
	}
	return humanize.IBytes(uint64(b))
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// FormatBytes is exported for use by other packages.
func FormatBytes(b int64) string {
	return formatBytes(b)
}
