package validator

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NamedFormat is a built-in pattern identified by a short key.
type NamedFormat struct {
	Name    string
	Pattern string
	re      *regexp.Regexp
	gen     func() string
}

// Regexp returns the compiled, case-insensitive pattern.
func (f NamedFormat) Regexp() *regexp.Regexp {
	return f.re
}

// Generate produces a fresh value in the canonical form of the format.
// Every generated value is accepted by the format's pattern.
func (f NamedFormat) Generate() string {
	return f.gen()
}

const (
	alnum       = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	sessionRune = alnum + "-_"
)

// formats is the process-wide registry. It is built once at package
// initialisation and never modified afterwards.
var formats = buildFormats([]NamedFormat{
	{
		Name:    "uuid4",
		Pattern: `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`,
		gen:     uuid.NewString,
	},
	{
		Name:    "email",
		Pattern: `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`,
		gen: func() string {
			return randomString(alnum, 10) + "@example.com"
		},
	},
	{
		Name:    "bearer_token",
		Pattern: `^Bearer [a-zA-Z0-9\-._~+/]+=*$`,
		gen: func() string {
			return "Bearer " + randomToken(32)
		},
	},
	{
		Name:    "datetime",
		Pattern: `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`,
		gen: func() string {
			return time.Now().UTC().Format(time.RFC3339Nano)
		},
	},
	{
		Name:    "alphanumeric",
		Pattern: `^[a-zA-Z0-9]+$`,
		gen: func() string {
			return randomString(alnum, 12)
		},
	},
	{
		Name:    "api_key",
		Pattern: `^[a-zA-Z0-9]{32,}$`,
		gen: func() string {
			return randomString(alnum, 40)
		},
	},
	{
		Name:    "session_id",
		Pattern: `^[A-Za-z0-9_-]{16,128}$`,
		gen: func() string {
			return randomString(sessionRune, 32)
		},
	},
	{
		Name:    "jwt",
		Pattern: `^[A-Za-z0-9_=-]+\.[A-Za-z0-9_=-]+\.[A-Za-z0-9_.+/=-]*$`,
		gen: func() string {
			return randomToken(12) + "." + randomToken(24) + "." + randomToken(32)
		},
	},
})

func buildFormats(list []NamedFormat) map[string]NamedFormat {
	m := make(map[string]NamedFormat, len(list))
	for _, f := range list {
		f.re = regexp.MustCompile("(?i)" + f.Pattern)
		m[f.Name] = f
	}
	return m
}

// LookupFormat returns the named format from the registry.
func LookupFormat(name string) (NamedFormat, bool) {
	f, ok := formats[name]
	return f, ok
}

// FormatNames returns the registered format names in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// MatchesFormat reports whether value is accepted by the named format.
// Unknown names never match.
func MatchesFormat(name, value string) bool {
	f, ok := formats[name]
	if !ok {
		return false
	}
	return f.re.MatchString(value)
}

func randomString(charset string, n int) string {
	var b strings.Builder
	b.Grow(n)
	max := big.NewInt(int64(len(charset)))
	for range n {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			b.WriteByte(charset[0])
			continue
		}
		b.WriteByte(charset[idx.Int64()])
	}
	return b.String()
}

func randomToken(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}
