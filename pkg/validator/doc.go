// Package validator implements the validation chain shared by every request
// parameter validator in the module.
//
// A Chain is built once from a set of Options and then invoked once per
// request against a fresh raw value. It runs a fixed sequence of rules and
// stops at the first failure:
//
//  1. required       – absent values fail when required, otherwise the
//     configured default is returned and nothing else runs
//  2. allowed values – exact, type-sensitive membership
//  3. pattern/format – prefix-anchored regular expression match
//  4. length         – code-point length of textual values
//  5. numeric bounds – gt, lt, ge, le (in that order) on numeric values
//  6. custom         – user predicates, in registration order
//
// Rule evaluators live in one file per family (choice_rules.go,
// pattern_rules.go, string_rules.go, numeric_rules.go, custom_rules.go) and
// are plain functions that return a *Failure or nil. The chain resolves error
// messages only when a rule fails: a per-rule override wins, then the
// chain-level detail, then the variant's built-in text.
//
// # Usage
//
//	chain, err := validator.New(
//	    validator.Name("X-Request-ID"),
//	    validator.Format("uuid4"),
//	    validator.Required(true),
//	)
//	if err != nil {
//	    // configuration error, surfaces at startup
//	}
//
//	value, err := chain.Validate(r.Context(), r.Header.Get("X-Request-ID"), true)
//	if err != nil {
//	    // err is a core.HTTPError with status code and detail
//	}
//
// # Concurrency
//
// A Chain is immutable after New returns; Run and Validate never mutate it, so
// one instance can serve any number of concurrent requests.
package validator
