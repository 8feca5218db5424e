package upload

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var sizePattern = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*(B|KB|MB|GB|TB)\s*$`)

var sizeUnits = map[string]int64{
	"B":  1,
	"KB": 1 << 10,
	"MB": 1 << 20,
	"GB": 1 << 30,
	"TB": 1 << 40,
}

// Size is a byte count parsed once from either a number or an expression
// such as "20B", "1.5MB" or "2 kb". Units are binary multiples of 1024.
type Size struct {
	bytes int64
	text  string
}

// ParseSize parses a size expression.
func ParseSize(expr string) (Size, error) {
	m := sizePattern.FindStringSubmatch(expr)
	if m == nil {
		return Size{}, fmt.Errorf("%w: %q, expected <number><B|KB|MB|GB|TB>", ErrInvalidSize, expr)
	}
	mantissa, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Size{}, fmt.Errorf("%w: %q: %v", ErrInvalidSize, expr, err)
	}
	n := mantissa * float64(sizeUnits[strings.ToUpper(m[2])])
	if math.IsNaN(n) || math.IsInf(n, 0) || n >= math.MaxInt64 {
		return Size{}, fmt.Errorf("%w: %q overflows", ErrInvalidSize, expr)
	}
	return Size{bytes: int64(n), text: strings.TrimSpace(expr)}, nil
}

// MustParseSize is like ParseSize but panics on malformed input.
func MustParseSize(expr string) Size {
	s, err := ParseSize(expr)
	if err != nil {
		panic(err)
	}
	return s
}

// Bytes returns a Size for a raw byte count.
func Bytes(n int64) Size {
	return Size{bytes: n, text: strconv.FormatInt(n, 10) + "B"}
}

// Bytes returns the canonical byte count.
func (s Size) Bytes() int64 { return s.bytes }

// String returns the size as it was written.
func (s Size) String() string { return s.text }
