package validator

import "net/http"

// RequiredPolicy decides whether a value is mandatory.
//
// An explicit flag always wins. Without one, the value is required exactly
// when no default was supplied. A default of nil still counts as a default.
type RequiredPolicy struct {
	Explicit   *bool
	HasDefault bool
}

// IsRequired applies the precedence rule.
func (p RequiredPolicy) IsRequired() bool {
	if p.Explicit != nil {
		return *p.Explicit
	}
	return !p.HasDefault
}

// IsAbsent reports whether value counts as missing: nil, an empty string or a
// nil *string.
func IsAbsent(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case *string:
		return v == nil || *v == ""
	default:
		return false
	}
}

// checkRequired returns a failure when a required value is absent.
func checkRequired(c *Chain, value any) *Failure {
	if !c.required {
		return nil
	}
	return &Failure{
		Kind:    KindRequired,
		Rule:    RuleRequired,
		Status:  http.StatusBadRequest,
		Message: c.message(c.messages.Required, Info{Rule: RuleRequired, Value: value}),
	}
}
