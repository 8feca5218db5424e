package upload

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

// DefaultCSVContentTypes is used when a CSVValidator has no ContentTypes option.
var DefaultCSVContentTypes = []string{
	"text/csv", "application/csv", "text/plain", "application/vnd.ms-excel",
}

// CSVValidator runs the shared payload checks and then validates the
// payload as delimited text: encoding, header columns and data row count.
type CSVValidator struct {
	checks    *Checks
	boundary  boundary
	maxMemory int64
	chunkSize int

	encodings  []TextEncoding
	delimiter  rune
	required   []string
	disallowed []string
	exact      []string
	minRows    int
	maxRows    int
	headerOnly bool

	onEncoding validator.ErrorDetail
	onColumn   validator.ErrorDetail
	onRow      validator.ErrorDetail
	onParse    validator.ErrorDetail
}

// NewCSVValidator builds a CSV validator.
func NewCSVValidator(opts ...Option) (*CSVValidator, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	if len(o.contentTypes) == 0 {
		o.contentTypes = slices.Clone(DefaultCSVContentTypes)
	}
	if len(o.encodings) == 0 {
		o.encodings = []string{DefaultEncoding}
	}

	var errs []error
	encs := make([]TextEncoding, 0, len(o.encodings))
	for _, name := range o.encodings {
		enc, err := LookupEncoding(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		encs = append(encs, enc)
	}
	if !validDelimiter(o.delimiter) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidDelimiter, o.delimiter))
	}
	if o.minRows >= 0 && o.maxRows >= 0 && o.minRows > o.maxRows {
		errs = append(errs, fmt.Errorf("%w: min %d > max %d", ErrInvalidRowBounds, o.minRows, o.maxRows))
	}
	if len(errs) > 0 {
		return nil, errors.Join(append([]error{validator.ErrConfiguration}, errs...)...)
	}

	return &CSVValidator{
		checks:     newChecks(o),
		boundary:   boundary{subject: "CSV", logger: o.logger, observer: o.observer},
		maxMemory:  o.maxMemory,
		chunkSize:  o.chunkSize,
		encodings:  encs,
		delimiter:  o.delimiter,
		required:   o.requiredCols,
		disallowed: o.disallowedCols,
		exact:      o.exactCols,
		minRows:    o.minRows,
		maxRows:    o.maxRows,
		headerOnly: o.headerCheckOnly,
		onEncoding: o.onEncoding,
		onColumn:   o.onColumn,
		onRow:      o.onRow,
		onParse:    o.onParse,
	}, nil
}

// MustCSVValidator is like NewCSVValidator but panics on configuration errors.
func MustCSVValidator(opts ...Option) *CSVValidator {
	v, err := NewCSVValidator(opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks f. On return f is rewound, or closed when the error is a 500.
func (v *CSVValidator) Validate(ctx context.Context, f *File) (*File, error) {
	return v.boundary.run(ctx, f, v.checks.Run, v.checkCSV)
}

// FromRequest opens the multipart file field and validates it.
func (v *CSVValidator) FromRequest(r *http.Request, field string) (*File, error) {
	b := v.boundary.forField(field)
	f, err := open(r, field, v.maxMemory, b)
	if err != nil {
		return nil, err
	}
	return b.run(r.Context(), f, v.checks.Run, v.checkCSV)
}

func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

func (v *CSVValidator) checkCSV(f *File) *validator.Failure {
	enc, fl := v.detectEncoding(f)
	if fl != nil {
		return fl
	}
	if err := f.Rewind(); err != nil {
		return validator.Unexpected("CSV", err)
	}

	var (
		header []string
		rows   int
	)
	if v.headerOnly {
		header, rows, fl = v.peek(f, enc)
	} else {
		header, rows, fl = v.parse(f, enc)
	}
	if fl != nil {
		return fl
	}

	if fl := v.checkColumns(f, header); fl != nil {
		return fl
	}
	return v.checkRows(f, rows)
}

func (v *CSVValidator) detectEncoding(f *File) (TextEncoding, *validator.Failure) {
	names := make([]string, 0, len(v.encodings))
	for _, enc := range v.encodings {
		if err := f.Rewind(); err != nil {
			return TextEncoding{}, validator.Unexpected("CSV", err)
		}
		ok, err := enc.Valid(f, v.chunkSize)
		if err != nil {
			return TextEncoding{}, validator.Unexpected("CSV", err)
		}
		if ok {
			return enc, nil
		}
		names = append(names, enc.Name)
	}
	return TextEncoding{}, &validator.Failure{
		Kind:   validator.KindRuleViolation,
		Rule:   validator.RuleEncoding,
		Status: http.StatusBadRequest,
		Message: resolve(v.onEncoding, f, "File encoding is not one of the allowed encodings: "+
			strings.Join(names, ", ")),
	}
}

func (v *CSVValidator) reader(f *File, enc TextEncoding) *csv.Reader {
	r := csv.NewReader(enc.Decoder(f))
	r.Comma = v.delimiter
	// short rows are padded by consumers; only extra fields are malformed
	r.FieldsPerRecord = -1
	return r
}

// fieldCountError reports a record with more fields than the header.
type fieldCountError struct {
	want, line, got int
}

func (e fieldCountError) Error() string {
	return fmt.Sprintf("Expected %d fields in line %d, saw %d", e.want, e.line, e.got)
}

func (v *CSVValidator) parseFailure(f *File, err error) *validator.Failure {
	return &validator.Failure{
		Kind:    validator.KindResource,
		Rule:    validator.RuleParse,
		Status:  http.StatusBadRequest,
		Message: resolve(v.onParse, f, "Failed to parse CSV file: "+err.Error()),
		Cause:   err,
	}
}

var errNoHeader = errors.New("no header row found")

// readHeader reads the first record. A read error from the stream itself is
// unexpected; anything else is a parse failure.
func (v *CSVValidator) readHeader(f *File, r *csv.Reader) ([]string, *validator.Failure) {
	header, err := r.Read()
	switch {
	case errors.Is(err, io.EOF):
		return nil, v.parseFailure(f, errNoHeader)
	case errors.Is(err, ErrFileClosed):
		return nil, validator.Unexpected("CSV", err)
	case err != nil:
		return nil, v.parseFailure(f, err)
	}
	return slices.Clone(header), nil
}

// parse reads every record so malformed rows are reported.
func (v *CSVValidator) parse(f *File, enc TextEncoding) ([]string, int, *validator.Failure) {
	r := v.reader(f, enc)
	r.ReuseRecord = true

	header, fl := v.readHeader(f, r)
	if fl != nil {
		return nil, 0, fl
	}

	rows := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return header, rows, nil
		}
		if errors.Is(err, ErrFileClosed) {
			return nil, 0, validator.Unexpected("CSV", err)
		}
		if err != nil {
			return nil, 0, v.parseFailure(f, err)
		}
		if len(record) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, 0, v.parseFailure(f, fieldCountError{want: len(header), line: line, got: len(record)})
		}
		rows++
	}
}

// peek reads only the header record and counts the remaining non-blank lines.
func (v *CSVValidator) peek(f *File, enc TextEncoding) ([]string, int, *validator.Failure) {
	header, fl := v.readHeader(f, v.reader(f, enc))
	if fl != nil {
		return nil, 0, fl
	}
	if err := f.Rewind(); err != nil {
		return nil, 0, validator.Unexpected("CSV", err)
	}

	sc := bufio.NewScanner(enc.Decoder(f))
	sc.Buffer(make([]byte, 0, v.chunkSize), 1<<20)
	lines := 0
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			lines++
		}
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, 0, v.parseFailure(f, err)
		}
		return nil, 0, validator.Unexpected("CSV", err)
	}
	return header, max(lines-1, 0), nil
}

func (v *CSVValidator) checkColumns(f *File, header []string) *validator.Failure {
	columnFailure := func(msg string) *validator.Failure {
		return &validator.Failure{
			Kind:    validator.KindRuleViolation,
			Rule:    validator.RuleColumns,
			Status:  http.StatusBadRequest,
			Message: resolve(v.onColumn, f, msg),
		}
	}

	if len(v.required) > 0 {
		var missing []string
		for _, col := range v.required {
			if !slices.Contains(header, col) {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			return columnFailure("CSV file is missing required columns: " + strings.Join(missing, ", "))
		}
	}

	if len(v.disallowed) > 0 {
		var found []string
		for _, col := range v.disallowed {
			if slices.Contains(header, col) {
				found = append(found, col)
			}
		}
		if len(found) > 0 {
			return columnFailure("CSV file contains disallowed columns: " + strings.Join(found, ", "))
		}
	}

	if len(v.exact) > 0 && !slices.Equal(header, v.exact) {
		return columnFailure(fmt.Sprintf("CSV header does not match exactly. Expected: %s. Got: %s.",
			strings.Join(v.exact, ", "), strings.Join(header, ", ")))
	}
	return nil
}

func (v *CSVValidator) checkRows(f *File, rows int) *validator.Failure {
	var msg string
	switch {
	case v.minRows >= 0 && rows < v.minRows:
		msg = fmt.Sprintf("CSV file has %d data rows, below the minimum required rows of %d.", rows, v.minRows)
	case v.maxRows >= 0 && rows > v.maxRows:
		msg = fmt.Sprintf("CSV file has %d data rows and exceeds maximum allowed rows of %d.", rows, v.maxRows)
	default:
		return nil
	}
	return &validator.Failure{
		Kind:    validator.KindRuleViolation,
		Rule:    validator.RuleRows,
		Status:  http.StatusBadRequest,
		Message: resolve(v.onRow, f, msg),
	}
}
