package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/dmitrymomot/paramguard/pkg/logger"
	"github.com/dmitrymomot/paramguard/pkg/validator"
)

// sniffLen is the number of bytes http.DetectContentType looks at.
const sniffLen = 512

// Checks holds the rules shared by every binary payload validator:
// content type, filename and size. The file, image and CSV validators each
// hold one and run their own checks after it.
type Checks struct {
	maxSize      *Size
	minSize      *Size
	contentTypes []string
	filename     *regexp.Regexp
	sniff        bool
	chunkSize    int

	onSize     validator.ErrorDetail
	onType     validator.ErrorDetail
	onFilename validator.ErrorDetail
}

func newChecks(o *options) *Checks {
	return &Checks{
		maxSize:      o.maxSize,
		minSize:      o.minSize,
		contentTypes: o.contentTypes,
		filename:     o.filename,
		sniff:        o.sniff,
		chunkSize:    o.chunkSize,
		onSize:       o.onSize,
		onType:       o.onType,
		onFilename:   o.onFilename,
	}
}

// Run applies content type, filename and size checks in that order. A
// returned failure of kind validator.KindUnexpected means the stream broke.
func (c *Checks) Run(f *File) *validator.Failure {
	if fl := c.checkContentType(f); fl != nil {
		return fl
	}
	if fl := c.checkFilename(f); fl != nil {
		return fl
	}
	return c.checkSize(f)
}

// MatchContentType reports whether ct matches one of allowed. Matching is
// case-insensitive; "type/*" matches every subtype and "*/*" matches anything.
func MatchContentType(ct string, allowed []string) bool {
	ct = strings.ToLower(strings.TrimSpace(mediaType(ct)))
	if ct == "" {
		return false
	}
	for _, a := range allowed {
		a = strings.ToLower(strings.TrimSpace(a))
		switch {
		case a == "*/*" || a == ct:
			return true
		case strings.HasSuffix(a, "/*") && strings.HasPrefix(ct, strings.TrimSuffix(a, "*")):
			return true
		}
	}
	return false
}

// DetectContentType sniffs the media type from the first 512 bytes of f and rewinds it.
func DetectContentType(f *File) (string, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}
	if err := f.Rewind(); err != nil {
		return "", err
	}
	return mediaType(http.DetectContentType(buf[:n])), nil
}

func (c *Checks) checkContentType(f *File) *validator.Failure {
	if len(c.contentTypes) == 0 {
		return nil
	}
	ct := f.ContentType
	if c.sniff {
		detected, err := DetectContentType(f)
		if err != nil {
			return validator.Unexpected("file", err)
		}
		ct = detected
	}
	if MatchContentType(ct, c.contentTypes) {
		return nil
	}
	return &validator.Failure{
		Kind:   validator.KindRuleViolation,
		Rule:   validator.RuleContentType,
		Status: http.StatusUnsupportedMediaType,
		Message: resolve(c.onType, f, fmt.Sprintf("File has an unsupported media type: '%s'. Allowed types are: %s",
			ct, strings.Join(c.contentTypes, ", "))),
	}
}

func (c *Checks) checkFilename(f *File) *validator.Failure {
	if c.filename == nil {
		return nil
	}
	if f.Filename != "" && c.filename.MatchString(f.Filename) {
		return nil
	}
	return &validator.Failure{
		Kind:    validator.KindRuleViolation,
		Rule:    validator.RuleFilename,
		Status:  http.StatusBadRequest,
		Message: resolve(c.onFilename, f, fmt.Sprintf("Filename '%s' does not match the required pattern.", f.Filename)),
	}
}

func (c *Checks) checkSize(f *File) *validator.Failure {
	if c.maxSize == nil && c.minSize == nil {
		return nil
	}

	size := f.Size
	if size < 0 {
		n, exceeded, err := c.streamSize(f)
		if err != nil {
			return validator.Unexpected("file", err)
		}
		if exceeded {
			return c.tooLarge(f, -1)
		}
		size = n
	}

	if c.maxSize != nil && size > c.maxSize.Bytes() {
		return c.tooLarge(f, size)
	}
	if c.minSize != nil && size < c.minSize.Bytes() {
		return &validator.Failure{
			Kind:   validator.KindRuleViolation,
			Rule:   validator.RuleSize,
			Status: http.StatusBadRequest,
			Message: resolve(c.onSize, f, fmt.Sprintf("File size (%d bytes) is less than the minimum requirement of %s.",
				size, c.minSize)),
		}
	}
	return nil
}

func (c *Checks) tooLarge(f *File, size int64) *validator.Failure {
	msg := fmt.Sprintf("File size exceeds the maximum limit of %s.", c.maxSize)
	if size >= 0 {
		msg = fmt.Sprintf("File size (%d bytes) exceeds the maximum limit of %s.", size, c.maxSize)
	}
	return &validator.Failure{
		Kind:    validator.KindRuleViolation,
		Rule:    validator.RuleSize,
		Status:  http.StatusRequestEntityTooLarge,
		Message: resolve(c.onSize, f, msg),
	}
}

// streamSize reads f in chunks, stopping as soon as the running total passes
// the maximum. Reads are sequential.
func (c *Checks) streamSize(f *File) (total int64, exceeded bool, err error) {
	chunk := c.chunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	buf := make([]byte, chunk)
	for {
		n, rerr := f.Read(buf)
		total += int64(n)
		if c.maxSize != nil && total > c.maxSize.Bytes() {
			return total, true, nil
		}
		if errors.Is(rerr, io.EOF) {
			return total, false, nil
		}
		if rerr != nil {
			return total, false, rerr
		}
	}
}

// resolve returns the override for f when set, else fallback.
func resolve(override validator.ErrorDetail, f *File, fallback string) string {
	if !override.IsZero() {
		return override.Resolve(f)
	}
	return fallback
}

// boundary runs steps against f with the stream contract every binary
// validator shares: on success or a rule failure f is rewound, on an
// unexpected failure f is closed. Panics become unexpected failures.
type boundary struct {
	subject  string
	field    string
	logger   *slog.Logger
	observer validator.Observer
}

func (b boundary) forField(field string) boundary {
	b.field = field
	return b
}

func (b boundary) run(ctx context.Context, f *File, steps ...func(*File) *validator.Failure) (*File, error) {
	if f == nil {
		fl := required()
		b.report(ctx, nil, fl)
		return nil, fl.HTTPError()
	}

	out := validator.Guard(ctx, b.logger, b.subject, func() validator.Outcome {
		for _, step := range steps {
			if fl := step(f); fl != nil {
				if fl.Kind == validator.KindUnexpected {
					// keep the subject of the variant that failed
					fl = validator.Unexpected(b.subject, fl.Cause)
				}
				return validator.Invalid(fl)
			}
			if err := f.Rewind(); err != nil {
				return validator.Invalid(validator.Unexpected(b.subject, err))
			}
		}
		return validator.Valid(f)
	})

	if fl := out.Failure(); fl != nil && fl.Kind == validator.KindUnexpected {
		_ = f.Close()
		b.report(ctx, f, fl)
		return nil, fl.HTTPError()
	}
	if err := f.Rewind(); err != nil {
		_ = f.Close()
		fl := validator.Unexpected(b.subject, err)
		b.report(ctx, f, fl)
		return nil, fl.HTTPError()
	}
	if fl := out.Failure(); fl != nil {
		b.report(ctx, f, fl)
		return nil, fl.HTTPError()
	}
	return f, nil
}

func (b boundary) report(ctx context.Context, f *File, fl *validator.Failure) {
	level := slog.LevelDebug
	if fl.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	var (
		name string
		size int64 = UnknownSize
	)
	if f != nil {
		name, size = f.Filename, f.Size
	}
	b.logger.LogAttrs(ctx, level, "upload validation failed",
		logger.Component(b.subject),
		logger.Filename(name),
		logger.Bytes(size),
		logger.Rule(fl.Rule),
		logger.Kind(fl.Kind.String()),
		logger.Status(fl.Status),
		logger.Error(fl.Cause),
	)
	if b.observer != nil {
		b.observer.ObserveFailure(ctx, b.subject, b.field, fl)
	}
}

func required() *validator.Failure {
	return validator.NewFailure(validator.KindRequired, validator.RuleRequired, http.StatusBadRequest, "File is required.")
}
