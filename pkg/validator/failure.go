package validator

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/paramguard/core"
)

// Kind classifies a failure.
type Kind int

const (
	// KindRuleViolation covers allowed-values, pattern, length, bounds and custom failures.
	KindRuleViolation Kind = iota
	// KindRequired means a mandatory value was absent.
	KindRequired
	// KindConversion means a value could not be coerced to the type a rule needs.
	KindConversion
	// KindResource means a stream could not be read, decoded or parsed.
	KindResource
	// KindMisconfigured means a required identity was missing at invocation time.
	KindMisconfigured
	// KindUnexpected covers everything else.
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindRuleViolation:
		return "rule_violation"
	case KindRequired:
		return "required_missing"
	case KindConversion:
		return "conversion_failure"
	case KindResource:
		return "resource_failure"
	case KindMisconfigured:
		return "internal_misconfiguration"
	case KindUnexpected:
		return "unexpected_error"
	default:
		return "unknown"
	}
}

// Rule names reported in failures and logs.
const (
	RuleRequired     = "required"
	RuleAllowed      = "allowed_values"
	RulePattern      = "pattern"
	RuleLength       = "length"
	RuleNumeric      = "numeric"
	RuleComparison   = "comparison"
	RuleCustom       = "custom"
	RuleConversion   = "conversion"
	RuleInternal     = "internal"
	RuleUnexpected   = "unexpected"
	RuleSize         = "size"
	RuleContentType  = "content_type"
	RuleFilename     = "filename"
	RuleImageFormat  = "image_format"
	RuleResolution   = "resolution"
	RuleAspectRatio  = "aspect_ratio"
	RuleEncoding     = "encoding"
	RuleColumns      = "columns"
	RuleRows         = "rows"
	RuleParse        = "parse"
	RuleDecode       = "decode"
	RuleStreamAccess = "stream"
)

// Failure is the internal failure representation. It is converted into a
// core.HTTPError only at the validator boundary.
type Failure struct {
	Kind    Kind
	Rule    string
	Status  int
	Message string
	Cause   error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return f.Message
}

// Unwrap exposes the underlying cause, if any.
func (f *Failure) Unwrap() error {
	return f.Cause
}

// HTTPError converts the failure into the transport error.
func (f *Failure) HTTPError() core.HTTPError {
	status := f.Status
	if status == 0 {
		status = http.StatusBadRequest
	}
	return core.NewHTTPError(status, f.Message)
}

// NewFailure builds a failure with the given classification.
func NewFailure(kind Kind, rule string, status int, message string) *Failure {
	return &Failure{Kind: kind, Rule: rule, Status: status, Message: message}
}

// Reject lets a custom predicate fail with its own detail and status code.
// The chain reports the detail verbatim instead of wrapping it.
//
// Example:
//
//	validator.WithPredicate(func(v any) (bool, error) {
//	    if v.(int)%2 != 0 {
//	        return false, validator.Reject("Value must be even.", 0)
//	    }
//	    return true, nil
//	})
func Reject(detail string, status int) error {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return &Failure{Kind: KindRuleViolation, Rule: RuleCustom, Status: status, Message: detail}
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) && f != nil {
		return f, true
	}
	return nil, false
}

// Outcome is the tagged result of running a chain: either a valid value or a failure.
type Outcome struct {
	value   any
	failure *Failure
}

// Valid returns a successful outcome.
func Valid(value any) Outcome {
	return Outcome{value: value}
}

// Invalid returns a failed outcome. A nil failure is treated as an unexpected error.
func Invalid(f *Failure) Outcome {
	if f == nil {
		f = unexpected("value")
	}
	return Outcome{failure: f}
}

// OK reports whether the outcome is valid.
func (o Outcome) OK() bool {
	return o.failure == nil
}

// Value returns the validated (possibly coerced) value. It is nil for failures.
func (o Outcome) Value() any {
	return o.value
}

// Failure returns the failure, or nil for valid outcomes.
func (o Outcome) Failure() *Failure {
	return o.failure
}

// Err converts a failed outcome into a core.HTTPError; nil when valid.
func (o Outcome) Err() error {
	if o.failure == nil {
		return nil
	}
	return o.failure.HTTPError()
}

// Unexpected returns the generic 500 failure used when something outside the
// rule path breaks. It never includes internal error text.
func Unexpected(subject string, cause error) *Failure {
	f := unexpected(subject)
	f.Cause = cause
	return f
}

func unexpected(subject string) *Failure {
	return &Failure{
		Kind:    KindUnexpected,
		Rule:    RuleUnexpected,
		Status:  http.StatusInternalServerError,
		Message: "An unexpected error occurred during " + subject + " validation.",
	}
}

// Misconfigured returns the 500 failure used when an instance is missing a
// required identity (for example an empty cookie name).
func Misconfigured(detail string) *Failure {
	return &Failure{
		Kind:    KindMisconfigured,
		Rule:    RuleInternal,
		Status:  http.StatusInternalServerError,
		Message: detail,
	}
}
