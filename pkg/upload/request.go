package upload

import (
	"net/http"

	"github.com/dmitrymomot/paramguard/pkg/validator"
)

// open returns the first file part named field. A missing part is a
// required failure and a body that is not multipart is a 400.
func open(r *http.Request, field string, maxMemory int64, b boundary) (*File, error) {
	ctx := r.Context()
	if r.MultipartForm == nil {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			fl := &validator.Failure{
				Kind:    validator.KindResource,
				Rule:    validator.RuleStreamAccess,
				Status:  http.StatusBadRequest,
				Message: "Request body is not a valid multipart form.",
				Cause:   err,
			}
			b.report(ctx, nil, fl)
			return nil, fl.HTTPError()
		}
	}

	parts := r.MultipartForm.File[field]
	if len(parts) == 0 {
		fl := required()
		b.report(ctx, nil, fl)
		return nil, fl.HTTPError()
	}

	f, err := FromFileHeader(parts[0])
	if err != nil {
		fl := validator.Unexpected(b.subject, err)
		b.report(ctx, nil, fl)
		return nil, fl.HTTPError()
	}
	return f, nil
}
