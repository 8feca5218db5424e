package validator

import (
	"fmt"
	"net/http"
	"regexp"
)

// CompilePattern compiles expr with prefix-anchored semantics: the match must
// start at the beginning of the input but may stop before its end, unless the
// expression itself ends with $.
func CompilePattern(expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`^(?:` + expr + `)`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return re, nil
}

// MatchPrefix reports whether re matches value's string form from its start.
func MatchPrefix(re *regexp.Regexp, value any) bool {
	loc := re.FindStringIndex(StringForm(value))
	return loc != nil && loc[0] == 0
}

// StringForm renders value as text for pattern matching.
func StringForm(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case fmt.Stringer:
		return v.String()
	default:
		return Display(value)
	}
}

func checkPattern(c *Chain, value any) *Failure {
	if c.pattern == nil {
		return nil
	}
	if MatchPrefix(c.pattern, value) {
		return nil
	}
	return &Failure{
		Kind:   KindRuleViolation,
		Rule:   RulePattern,
		Status: http.StatusBadRequest,
		Message: c.message(c.messages.Pattern, Info{
			Rule:    RulePattern,
			Value:   value,
			Pattern: c.patternText,
			Format:  c.format,
		}),
	}
}
