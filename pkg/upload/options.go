package upload

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/dmitrymomot/paramguard/pkg/config"
	"github.com/dmitrymomot/paramguard/pkg/validator"
)

const (
	// DefaultChunkSize is the read size used when the payload length is unknown.
	DefaultChunkSize = 64 * 1024
	// DefaultMaxMemory bounds multipart parsing in FromRequest.
	DefaultMaxMemory int64 = 10 << 20
	// DefaultAspectRatioTolerance is the absolute tolerance for aspect ratio matching.
	DefaultAspectRatioTolerance = 0.05
	// DefaultEncoding is the CSV encoding accepted when none is configured.
	DefaultEncoding = "utf-8"
)

// Option configures the file, image and CSV validators. Image options have
// no effect on a FileValidator or CSVValidator, and CSV options have no
// effect on a FileValidator or ImageValidator.
type Option func(*options)

type options struct {
	maxSize      *Size
	minSize      *Size
	contentTypes []string
	filename     *regexp.Regexp
	sniff        bool
	chunkSize    int
	maxMemory    int64
	logger       *slog.Logger
	observer     validator.Observer

	onSize     validator.ErrorDetail
	onType     validator.ErrorDetail
	onFilename validator.ErrorDetail

	// image
	formats   []string
	minRes    *Resolution
	maxRes    *Resolution
	exactRes  *Resolution
	ratios    []AspectRatio
	tolerance float64
	onFormat  validator.ErrorDetail
	onRes     validator.ErrorDetail
	onRatio   validator.ErrorDetail

	// csv
	encodings       []string
	delimiter       rune
	requiredCols    []string
	disallowedCols  []string
	exactCols       []string
	minRows         int
	maxRows         int
	headerCheckOnly bool
	onEncoding      validator.ErrorDetail
	onColumn        validator.ErrorDetail
	onRow           validator.ErrorDetail
	onParse         validator.ErrorDetail

	errs []error
}

func newOptions(opts []Option) (*options, error) {
	o := &options{
		chunkSize: DefaultChunkSize,
		maxMemory: DefaultMaxMemory,
		tolerance: DefaultAspectRatioTolerance,
		delimiter: ',',
		minRows:   -1,
		maxRows:   -1,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if len(o.errs) > 0 {
		return nil, errors.Join(append([]error{validator.ErrConfiguration}, o.errs...)...)
	}
	return o, nil
}

func (o *options) fail(err error) { o.errs = append(o.errs, err) }

// MaxSize sets the maximum payload size, e.g. "5MB". Exceeding it fails with 413.
func MaxSize(expr string) Option {
	return func(o *options) {
		s, err := ParseSize(expr)
		if err != nil {
			o.fail(err)
			return
		}
		o.maxSize = &s
	}
}

// MinSize sets the minimum payload size, e.g. "1KB".
func MinSize(expr string) Option {
	return func(o *options) {
		s, err := ParseSize(expr)
		if err != nil {
			o.fail(err)
			return
		}
		o.minSize = &s
	}
}

// MaxBytes sets the maximum payload size as a raw byte count.
func MaxBytes(n int64) Option {
	return func(o *options) {
		if n < 0 {
			o.fail(fmt.Errorf("%w: negative byte count %d", ErrInvalidSize, n))
			return
		}
		s := Bytes(n)
		o.maxSize = &s
	}
}

// MinBytes sets the minimum payload size as a raw byte count.
func MinBytes(n int64) Option {
	return func(o *options) {
		if n < 0 {
			o.fail(fmt.Errorf("%w: negative byte count %d", ErrInvalidSize, n))
			return
		}
		s := Bytes(n)
		o.minSize = &s
	}
}

// ContentTypes restricts the media type. "image/*" matches any image subtype.
func ContentTypes(types ...string) Option {
	return func(o *options) {
		o.contentTypes = append(o.contentTypes[:0:0], types...)
	}
}

// FilenamePattern requires the filename to contain a match of expr.
// A missing filename fails.
func FilenamePattern(expr string) Option {
	return func(o *options) {
		re, err := regexp.Compile(expr)
		if err != nil {
			o.fail(fmt.Errorf("%w: %v", ErrInvalidPattern, err))
			return
		}
		o.filename = re
	}
}

// SniffContent makes the content-type check use the type detected from the
// first 512 bytes instead of the declared one.
func SniffContent() Option {
	return func(o *options) { o.sniff = true }
}

// ChunkSize sets the read size used when streaming a payload of unknown length.
func ChunkSize(n int) Option {
	return func(o *options) {
		if n <= 0 {
			o.fail(fmt.Errorf("%w: %d", ErrInvalidChunkSize, n))
			return
		}
		o.chunkSize = n
	}
}

// MaxMemory bounds multipart parsing in FromRequest.
func MaxMemory(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxMemory = n
		}
	}
}

// WithSettings applies the engine defaults from config.Settings. Options
// given after it take precedence.
func WithSettings(s config.Settings) Option {
	return func(o *options) {
		if s.ChunkSize > 0 {
			o.chunkSize = s.ChunkSize
		}
		if s.MultipartMaxMemory > 0 {
			o.maxMemory = s.MultipartMaxMemory
		}
		if s.AspectRatioTolerance >= 0 {
			o.tolerance = s.AspectRatioTolerance
		}
		if s.CSVEncoding != "" && len(o.encodings) == 0 {
			o.encodings = []string{s.CSVEncoding}
		}
	}
}

// WithLogger sets the logger used for failure reporting.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver registers o to receive reported failures.
func WithObserver(o validator.Observer) Option {
	return func(opts *options) { opts.observer = o }
}

// OnSizeError overrides the size failure detail. The detail receives the *File.
func OnSizeError(d validator.ErrorDetail) Option {
	return func(o *options) { o.onSize = d }
}

// OnTypeError overrides the content-type failure detail.
func OnTypeError(d validator.ErrorDetail) Option {
	return func(o *options) { o.onType = d }
}

// OnFilenameError overrides the filename failure detail.
func OnFilenameError(d validator.ErrorDetail) Option {
	return func(o *options) { o.onFilename = d }
}

// Formats restricts the decoded image format: JPEG, PNG, GIF, BMP, TIFF or WEBP.
// JPG is accepted as an alias of JPEG.
func Formats(names ...string) Option {
	return func(o *options) {
		o.formats = o.formats[:0:0]
		for _, n := range names {
			o.formats = append(o.formats, normalizeFormat(n))
		}
	}
}

// MinResolution requires both dimensions to be at least w x h.
func MinResolution(w, h int) Option {
	return func(o *options) { o.minRes = o.resolution(w, h) }
}

// MaxResolution requires both dimensions to be at most w x h.
func MaxResolution(w, h int) Option {
	return func(o *options) { o.maxRes = o.resolution(w, h) }
}

// ExactResolution requires the image to be exactly w x h.
func ExactResolution(w, h int) Option {
	return func(o *options) { o.exactRes = o.resolution(w, h) }
}

func (o *options) resolution(w, h int) *Resolution {
	if w < 0 || h < 0 {
		o.fail(fmt.Errorf("%w: %dx%d", ErrInvalidResolution, w, h))
		return nil
	}
	return &Resolution{Width: w, Height: h}
}

// AspectRatios allows the given "W:H" ratios, e.g. "16:9".
func AspectRatios(ratios ...string) Option {
	return func(o *options) {
		o.ratios = o.ratios[:0:0]
		for _, r := range ratios {
			ar, err := ParseAspectRatio(r)
			if err != nil {
				o.fail(err)
				continue
			}
			o.ratios = append(o.ratios, ar)
		}
	}
}

// AspectRatioTolerance sets the absolute tolerance for aspect ratio matching.
func AspectRatioTolerance(t float64) Option {
	return func(o *options) {
		if t < 0 {
			o.fail(fmt.Errorf("%w: negative tolerance %v", ErrInvalidAspectRatio, t))
			return
		}
		o.tolerance = t
	}
}

// OnFormatError overrides the image format and decode failure detail.
func OnFormatError(d validator.ErrorDetail) Option {
	return func(o *options) { o.onFormat = d }
}

// OnResolutionError overrides the resolution failure detail.
func OnResolutionError(d validator.ErrorDetail) Option {
	return func(o *options) { o.onRes = d }
}

// OnAspectRatioError overrides the aspect ratio failure detail.
func OnAspectRatioError(d validator.ErrorDetail) Option {
	return func(o *options) { o.onRatio = d }
}

// Encodings sets the character encodings a CSV payload may use, e.g. "utf-8",
// "ascii", "latin-1". The first one that decodes the payload is used for parsing.
func Encodings(names ...string) Option {
	return func(o *options) {
		o.encodings = append(o.encodings[:0:0], names...)
	}
}

// Delimiter sets the CSV field separator.
func Delimiter(r rune) Option {
	return func(o *options) { o.delimiter = r }
}

// RequiredColumns requires every listed column to be present in the header.
func RequiredColumns(cols ...string) Option {
	return func(o *options) { o.requiredCols = append(o.requiredCols[:0:0], cols...) }
}

// DisallowedColumns rejects a header containing any listed column.
func DisallowedColumns(cols ...string) Option {
	return func(o *options) { o.disallowedCols = append(o.disallowedCols[:0:0], cols...) }
}

// ExactColumns requires the header to equal cols, in order.
func ExactColumns(cols ...string) Option {
	return func(o *options) { o.exactCols = append(o.exactCols[:0:0], cols...) }
}

// MinRows sets the minimum number of data rows, header excluded.
func MinRows(n int) Option {
	return func(o *options) { o.minRows = n }
}

// MaxRows sets the maximum number of data rows, header excluded.
func MaxRows(n int) Option {
	return func(o *options) { o.maxRows = n }
}

// HeaderCheckOnly reads the header and counts lines instead of parsing every
// row. Rows containing quoted line breaks are over-counted in this mode.
func HeaderCheckOnly() Option {
	return func(o *options) { o.headerCheckOnly = true }
}

// OnEncodingError overrides the encoding failure detail.
func OnEncodingError(d validator.ErrorDetail) Option {
	return func(o *options) { o.onEncoding = d }
}

// OnColumnError overrides every column failure detail.
func OnColumnError(d validator.ErrorDetail) Option {
	return func(o *options) { o.onColumn = d }
}

// OnRowError overrides the row count failure detail.
func OnRowError(d validator.ErrorDetail) Option {
	return func(o *options) { o.onRow = d }
}

// OnParseError overrides the parse failure detail.
func OnParseError(d validator.ErrorDetail) Option {
	return func(o *options) { o.onParse = d }
}
