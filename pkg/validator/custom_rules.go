package validator

import (
	"fmt"
	"net/http"
)

// Predicate is a custom check. Returning false fails with the generic custom
// message; returning an error (or panicking) fails with a message that carries
// the error text. An error built with Reject is reported verbatim.
type Predicate func(value any) (bool, error)

// Bool adapts a plain boolean check into a Predicate.
func Bool(fn func(value any) bool) Predicate {
	return func(value any) (bool, error) {
		return fn(value), nil
	}
}

// callPredicate runs fn, turning a panic into an error.
func callPredicate(fn Predicate, value any) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, isErr := r.(error); isErr {
				err = e
			} else {
				err = fmt.Errorf("%v", r)
			}
			ok = false
		}
	}()
	return fn(value)
}

func checkCustom(c *Chain, value any) *Failure {
	for _, fn := range c.predicates {
		ok, err := callPredicate(fn, value)
		if err != nil {
			if f, isFailure := AsFailure(err); isFailure {
				out := *f
				out.Kind = KindRuleViolation
				out.Rule = RuleCustom
				return &out
			}
			return &Failure{
				Kind:    KindRuleViolation,
				Rule:    RuleCustom,
				Status:  http.StatusBadRequest,
				Message: c.thrownMessage(value, err),
				Cause:   err,
			}
		}
		if !ok {
			return &Failure{
				Kind:    KindRuleViolation,
				Rule:    RuleCustom,
				Status:  http.StatusBadRequest,
				Message: c.message(c.messages.Custom, Info{Rule: RuleCustom, Value: value}),
			}
		}
	}
	return nil
}

// thrownMessage composes the detail for a predicate that raised an error.
func (c *Chain) thrownMessage(value any, err error) string {
	if !c.messages.Custom.IsZero() {
		return c.messages.Custom.Resolve(value) + ": " + err.Error()
	}
	if !c.detail.IsZero() {
		return c.detail.Resolve(value)
	}
	return c.texts(Info{Rule: RuleCustom, Value: value, Err: err})
}
