package chunked

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Binary size units accepted by ParseSize.
const (
	Byte     int64 = 1
	Kilobyte       = 1024 * Byte
	Megabyte       = 1024 * Kilobyte
	Gigabyte       = 1024 * Megabyte
)

var sizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(B|KB|MB|GB)?$`)

var unitScale = map[string]int64{
	"":   Byte,
	"B":  Byte,
	"KB": Kilobyte,
	"MB": Megabyte,
	"GB": Gigabyte,
}

// ParseSize converts a human-readable size such as "512KB", "1.5GB" or
// "1000000" into a byte count. Units are case-insensitive and scale by
// powers of 1024. Fractional byte counts are truncated toward zero.
//
// Strings that do not match <number>[unit] return an error wrapping
// ErrInvalidFormat.
func ParseSize(s string) (int64, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))

	m := sizePattern.FindStringSubmatch(norm)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, s, err)
	}

	bytes := value * float64(unitScale[m[2]])
	if bytes >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidFormat, s)
	}

	return int64(bytes), nil
}

// FormatSize renders n using the largest unit that divides it exactly,
// so the result parses back to n with ParseSize.
func FormatSize(n int64) string {
	switch {
	case n != 0 && n%Gigabyte == 0:
		return fmt.Sprintf("%dGB", n/Gigabyte)
	case n != 0 && n%Megabyte == 0:
		return fmt.Sprintf("%dMB", n/Megabyte)
	case n != 0 && n%Kilobyte == 0:
		return fmt.Sprintf("%dKB", n/Kilobyte)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
