// Package metrics counts validation failures with Prometheus.
//
// A Collector implements validator.Observer, so it can be handed to any
// parameter validator (params.WithObserver) or upload validator
// (upload.WithObserver):
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	v := params.MustQuery("limit", params.Int, validator.Ge(1), validator.WithObserver(m))
//	r.Handle("/metrics", metrics.Handler(reg))
//
// Label values come from the validator configuration and the failure
// taxonomy, never from request input, so cardinality stays bounded.
package metrics
