package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TextEncoding is a named character encoding a CSV payload may use.
type TextEncoding struct {
	Name string
	// enc is nil for ASCII, which x/text does not model as an encoding.
	enc encoding.Encoding
	// utf8 payloads are checked on the raw bytes.
	utf8 bool
}

// LookupEncoding resolves an encoding name. Common aliases (utf8, latin-1,
// ascii, cp1252) are accepted in addition to IANA names.
func LookupEncoding(name string) (TextEncoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "utf-8", "utf8", "utf-8-sig":
		return TextEncoding{Name: name, enc: unicode.UTF8BOM, utf8: true}, nil
	case "ascii", "us-ascii":
		return TextEncoding{Name: name}, nil
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1", "l1":
		return TextEncoding{Name: name, enc: charmap.ISO8859_1}, nil
	case "cp1252", "windows-1252":
		return TextEncoding{Name: name, enc: charmap.Windows1252}, nil
	case "utf-16", "utf16":
		return TextEncoding{Name: name, enc: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)}, nil
	}
	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil || enc == nil {
		return TextEncoding{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return TextEncoding{Name: name, enc: enc, utf8: enc == unicode.UTF8}, nil
}

// Decoder wraps r so that it yields UTF-8.
func (e TextEncoding) Decoder(r io.Reader) io.Reader {
	if e.enc == nil {
		return r
	}
	return transform.NewReader(r, e.enc.NewDecoder())
}

// Valid reads r to the end and reports whether every byte decodes cleanly.
// A returned error is a read error, not an encoding mismatch.
//
// Decoders substitute U+FFFD for undecodable input, so a payload is invalid
// when the decoded stream holds more U+FFFD runes than the source encodes
// literally.
func (e TextEncoding) Valid(r io.Reader, chunk int) (bool, error) {
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	switch {
	case e.enc == nil:
		return asciiOnly(r, chunk)
	case e.utf8:
		return validUTF8(r, chunk)
	}

	raw := &patternCounter{r: r, pattern: e.encodedReplacement()}
	decoded := &patternCounter{r: e.Decoder(raw), pattern: []byte(string(utf8.RuneError))}
	buf := make([]byte, chunk)
	for {
		_, err := decoded.Read(buf)
		// raw is always read ahead of decoded, so a surplus is final
		if decoded.count > raw.count {
			return false, nil
		}
		switch {
		case errors.Is(err, io.EOF):
			return true, nil
		case errors.Is(err, transform.ErrShortSrc), errors.Is(err, encoding.ErrInvalidUTF8):
			return false, nil
		case err != nil:
			return false, err
		}
	}
}

// encodedReplacement returns how U+FFFD itself is written in e, or nil when
// e cannot represent it.
func (e TextEncoding) encodedReplacement() []byte {
	prefix, err := e.enc.NewEncoder().Bytes([]byte("a"))
	if err != nil {
		return nil
	}
	full, err := e.enc.NewEncoder().Bytes([]byte("a\uFFFD"))
	if err != nil || !bytes.HasPrefix(full, prefix) || len(full) == len(prefix) {
		return nil
	}
	return full[len(prefix):]
}

// patternCounter counts occurrences of pattern in everything read through it,
// including occurrences split across reads.
type patternCounter struct {
	r       io.Reader
	pattern []byte
	tail    []byte
	count   int
}

func (p *patternCounter) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && len(p.pattern) > 0 {
		window := append(p.tail, b[:n]...)
		p.count += bytes.Count(window, p.pattern)
		keep := min(len(window), len(p.pattern)-1)
		p.tail = append(p.tail[:0], window[len(window)-keep:]...)
	}
	return n, err
}

// validUTF8 checks raw bytes, holding back an incomplete trailing rune until
// the next read completes it.
func validUTF8(r io.Reader, chunk int) (bool, error) {
	buf := make([]byte, chunk+utf8.UTFMax)
	pending := 0
	for {
		n, err := r.Read(buf[pending : pending+chunk])
		data := buf[:pending+n]
		cut := incompleteTail(data)
		if !utf8.Valid(data[:cut]) {
			return false, nil
		}
		pending = copy(buf, data[cut:])
		if errors.Is(err, io.EOF) {
			return pending == 0, nil
		}
		if err != nil {
			return false, err
		}
	}
}

// incompleteTail returns the offset of a trailing rune that needs more bytes,
// or len(b) when b ends on a rune boundary.
func incompleteTail(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-(utf8.UTFMax-1); i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return i
			}
			break
		}
	}
	return len(b)
}

func asciiOnly(r io.Reader, chunk int) (bool, error) {
	buf := make([]byte, chunk)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			if b >= utf8.RuneSelf {
				return false, nil
			}
		}
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
	}
}
