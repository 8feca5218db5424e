// Package handler adapts error-returning handlers to net/http.
//
// Validators return core.HTTPError values. Wrap turns them into responses of
// the form {"detail": "..."} with the error's status code, answers any other
// error or panic with a 500 that does not leak internal text, and logs each
// failure at Warn for client errors and Error for server errors.
//
//	itemID := params.MustPath("id", params.Int, validator.Gt(0))
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//	r.Get("/items/{id}", handler.Wrap(func(w http.ResponseWriter, r *http.Request) error {
//		id, err := params.As[int](itemID.FromRequest(r))
//		if err != nil {
//			return err
//		}
//		return core.WriteJSON(w, http.StatusOK, map[string]int{"id": id})
//	}))
//
// Validate runs a set of parameter validators as a decorator when the
// handler does not need the values themselves.
package handler
