// Package requestid correlates log records with the HTTP request that
// produced them.
//
// Middleware reads the incoming X-Request-ID header through a params.Header
// validator (letters, digits, '-' and '_', 1 to 128 characters). A value that
// passes is reused; a missing or rejected one is replaced with a fresh UUIDv4.
// The chosen id is stored in the request context and echoed in the response
// header, so clients can quote it when reporting a failed validation.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
//		id := requestid.FromContext(r.Context())
//		_ = id
//	})
//
// LoggerExtractor plugs the id into every record logged with the request
// context:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//
// Nothing in this package returns an error. Rejected client ids are logged
// to a discard logger and replaced.
package requestid
