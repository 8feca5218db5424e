package validator

import (
	"net/http"
	"reflect"
)

// InAllowed reports whether value is a member of allowed. Membership is exact
// and type-sensitive: "2" and 2 are different values, as are int(2) and int64(2).
func InAllowed(value any, allowed []any) bool {
	for _, candidate := range allowed {
		if reflect.DeepEqual(value, candidate) {
			return true
		}
	}
	return false
}

func checkAllowed(c *Chain, value any) *Failure {
	if c.allowed == nil {
		return nil
	}
	if InAllowed(value, c.allowed) {
		return nil
	}
	return &Failure{
		Kind:   KindRuleViolation,
		Rule:   RuleAllowed,
		Status: http.StatusBadRequest,
		Message: c.message(c.messages.Allowed, Info{
			Rule:    RuleAllowed,
			Value:   value,
			Allowed: c.allowed,
		}),
	}
}
