package validator

import (
	"fmt"
	"log/slog"
)

// Option configures a Chain.
type Option func(*settings)

type settings struct {
	name       string
	subject    string
	required   *bool
	hasDefault bool
	defaultVal any
	allowed    []any
	pattern    string
	format     string
	minLength  int
	maxLength  int
	bounds     Bounds
	coerce     bool
	predicates []Predicate
	messages   Messages
	detail     ErrorDetail
	texts      TextFunc
	logger     *slog.Logger
	observer   Observer
	errs       []error
}

// Name sets the parameter name used in logs.
func Name(name string) Option {
	return func(s *settings) { s.name = name }
}

// Subject sets the noun used in unexpected-error messages, e.g. "header".
func Subject(subject string) Option {
	return func(s *settings) {
		if subject != "" {
			s.subject = subject
		}
	}
}

// Required sets the explicit required flag. It overrides the default-based policy.
func Required(required bool) Option {
	return func(s *settings) { s.required = &required }
}

// Default sets the value returned when the input is absent and not required.
// A nil default still counts as a default.
func Default(value any) Option {
	return func(s *settings) {
		s.hasDefault = true
		s.defaultVal = value
	}
}

// NoDefault clears any previously configured default.
func NoDefault() Option {
	return func(s *settings) {
		s.hasDefault = false
		s.defaultVal = nil
	}
}

// AllowedValues restricts the value to the given set.
func AllowedValues(values ...any) Option {
	return func(s *settings) {
		s.allowed = append(make([]any, 0, len(values)), values...)
	}
}

// Pattern sets a regular expression matched from the start of the value.
func Pattern(expr string) Option {
	return func(s *settings) { s.pattern = expr }
}

// Format selects a built-in named format such as "uuid4" or "email".
func Format(name string) Option {
	return func(s *settings) { s.format = name }
}

// MinLength sets the minimum length in code points.
func MinLength(n int) Option {
	return func(s *settings) { s.minLength = n }
}

// MaxLength sets the maximum length in code points.
func MaxLength(n int) Option {
	return func(s *settings) { s.maxLength = n }
}

// Gt requires a numeric value strictly greater than n.
func Gt(n float64) Option { return func(s *settings) { s.bounds.Gt = &n } }

// Lt requires a numeric value strictly less than n.
func Lt(n float64) Option { return func(s *settings) { s.bounds.Lt = &n } }

// Ge requires a numeric value greater than or equal to n.
func Ge(n float64) Option { return func(s *settings) { s.bounds.Ge = &n } }

// Le requires a numeric value less than or equal to n.
func Le(n float64) Option { return func(s *settings) { s.bounds.Le = &n } }

// CoerceNumbers makes numeric bounds parse string values. A string that does
// not parse fails with a conversion error; a parsed value becomes the result,
// while predicates still receive the input as supplied.
func CoerceNumbers() Option {
	return func(s *settings) { s.coerce = true }
}

// WithPredicate appends a custom check. Predicates run in registration order.
func WithPredicate(fn Predicate) Option {
	return func(s *settings) {
		if fn == nil {
			s.errs = append(s.errs, ErrNilPredicate)
			return
		}
		s.predicates = append(s.predicates, fn)
	}
}

// WithMessages sets per-rule detail overrides. Zero fields are left untouched.
func WithMessages(m Messages) Option {
	return func(s *settings) {
		merge := func(dst *ErrorDetail, src ErrorDetail) {
			if !src.IsZero() {
				*dst = src
			}
		}
		merge(&s.messages.Required, m.Required)
		merge(&s.messages.Allowed, m.Allowed)
		merge(&s.messages.Pattern, m.Pattern)
		merge(&s.messages.Length, m.Length)
		merge(&s.messages.Numeric, m.Numeric)
		merge(&s.messages.Comparison, m.Comparison)
		merge(&s.messages.Custom, m.Custom)
	}
}

// WithErrorDetail sets the chain-level detail used by any rule without its own override.
func WithErrorDetail(d ErrorDetail) Option {
	return func(s *settings) { s.detail = d }
}

// WithTexts replaces the built-in wording.
func WithTexts(fn TextFunc) Option {
	return func(s *settings) {
		if fn != nil {
			s.texts = fn
		}
	}
}

// WithLogger sets the logger for failure reporting.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

func (s *settings) validate() error {
	if s.pattern != "" && s.format != "" {
		return configError(ErrPatternAndFormat, "")
	}
	if s.format != "" {
		if _, ok := LookupFormat(s.format); !ok {
			return configError(ErrUnknownFormat, fmt.Sprintf("format %q, known: %v", s.format, FormatNames()))
		}
	}
	if s.minLength < -1 || s.maxLength < -1 ||
		(s.minLength >= 0 && s.maxLength >= 0 && s.minLength > s.maxLength) {
		return configError(ErrInvalidLength, fmt.Sprintf("min=%d max=%d", s.minLength, s.maxLength))
	}
	if len(s.errs) > 0 {
		return configError(s.errs[0], "")
	}
	return nil
}
