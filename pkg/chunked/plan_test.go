package chunked

import (
	"errors"
	"testing"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		chunkSize int64
		want      []Span
	}{
		{
			name:      "empty input",
			total:     0,
			chunkSize: 10,
			want:      []Span{},
		},
		{
			name:      "chunk larger than input",
			total:     5,
			chunkSize: 10,
			want:      []Span{{0, 0, 5}},
		},
		{
			name:      "chunk equal to input",
			total:     10,
			chunkSize: 10,
			want:      []Span{{0, 0, 10}},
		},
		{
			name:      "exact multiple",
			total:     30,
			chunkSize: 10,
			want:      []Span{{0, 0, 10}, {1, 10, 10}, {2, 20, 10}},
		},
		{
			name:      "short final chunk",
			total:     2500000,
			chunkSize: 1048576,
			want:      []Span{{0, 0, 1048576}, {1, 1048576, 1048576}, {2, 2097152, 402848}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Plan(tt.total, tt.chunkSize)
			if err != nil {
				t.Fatalf("Plan: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d spans, want %d", len(got), len(tt.want))
			}
			var covered int64
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("span %d = %+v, want %+v", i, got[i], tt.want[i])
				}
				covered += got[i].Length
			}
			if covered != tt.total {
				t.Errorf("spans cover %d bytes, want %d", covered, tt.total)
			}
		})
	}
}

func TestPlanInvalid(t *testing.T) {
	if _, err := Plan(100, 0); !errors.Is(err, ErrInvalidChunkSize) {
		t.Errorf("Plan(100, 0) error = %v, want ErrInvalidChunkSize", err)
	}
	if _, err := Plan(100, -5); !errors.Is(err, ErrInvalidChunkSize) {
		t.Errorf("Plan(100, -5) error = %v, want ErrInvalidChunkSize", err)
	}
	if _, err := Count(-1, 10); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Count(-1, 10) error = %v, want ErrInvalidInput", err)
	}
}

func TestChunkName(t *testing.T) {
	tests := []struct {
		prefix   string
		idx      int
		expected string
	}{
		{"chunk_", 0, "chunk_0000.bin"},
		{"chunk_", 42, "chunk_0042.bin"},
		{"part-", 9999, "part-9999.bin"},
		{"part-", 10000, "part-10000.bin"},
		{"x", 123456, "x123456.bin"},
	}

	for _, tt := range tests {
		if got := ChunkName(tt.prefix, tt.idx); got != tt.expected {
			t.Errorf("ChunkName(%q, %d) = %q, want %q", tt.prefix, tt.idx, got, tt.expected)
		}
	}
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		name  string
		idx   int
		valid bool
	}{
		{"chunk_0000.bin", 0, true},
		{"chunk_0012.bin", 12, true},
		{"chunk_10000.bin", 10000, true},
		{"chunk_012.bin", 0, false},
		{"chunk_00012.bin", 0, false},
		{"chunk_abcd.bin", 0, false},
		{"chunk_0001.txt", 0, false},
		{"other_0001.bin", 0, false},
	}

	for _, tt := range tests {
		idx, ok := parseIndex("chunk_", tt.name)
		if ok != tt.valid || (ok && idx != tt.idx) {
			t.Errorf("parseIndex(%q) = %d, %v; want %d, %v", tt.name, idx, ok, tt.idx, tt.valid)
		}
	}
}
