// Package params validates scalar request parameters: headers, cookies, path
// segments and query values.
//
// Each validator is built once with validator.Options and then used per
// request, either through FromRequest, which extracts the raw value from an
// *http.Request, or through Check, which takes the raw value directly.
// Failures are returned as core.HTTPError values ready to be rendered by
// handler.Wrap.
//
//	requestID := params.MustHeader("X-Request-ID",
//	    validator.Format("uuid4"),
//	    validator.Required(true),
//	)
//
//	page := params.MustQuery("page", params.Int,
//	    validator.Default(1),
//	    validator.Ge(1),
//	)
//
//	func list(w http.ResponseWriter, r *http.Request) error {
//	    id, err := params.As[string](requestID.FromRequest(r))
//	    if err != nil {
//	        return err
//	    }
//	    n, err := params.As[int](page.FromRequest(r))
//	    ...
//	}
//
// Path segments are read with chi.URLParam unless another Extractor is set.
package params
