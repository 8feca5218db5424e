package validator

import (
	"net/http"
	"unicode/utf8"
)

// TextLength returns the code-point length of value and whether value is textual.
func TextLength(value any) (int, bool) {
	switch v := value.(type) {
	case string:
		return utf8.RuneCountInString(v), true
	case *string:
		if v == nil {
			return 0, false
		}
		return utf8.RuneCountInString(*v), true
	default:
		return 0, false
	}
}

func checkLength(c *Chain, value any) *Failure {
	if c.minLength < 0 && c.maxLength < 0 {
		return nil
	}
	n, ok := TextLength(value)
	if !ok {
		return nil
	}

	var bound string
	var limit int
	switch {
	case c.minLength >= 0 && n < c.minLength:
		bound, limit = "min", c.minLength
	case c.maxLength >= 0 && n > c.maxLength:
		bound, limit = "max", c.maxLength
	default:
		return nil
	}

	return &Failure{
		Kind:   KindRuleViolation,
		Rule:   RuleLength,
		Status: http.StatusBadRequest,
		Message: c.message(c.messages.Length, Info{
			Rule:  RuleLength,
			Value: value,
			Bound: bound,
			Limit: float64(limit),
		}),
	}
}
