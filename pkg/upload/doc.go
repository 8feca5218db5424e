// Package upload validates binary request payloads: arbitrary files,
// images and CSV documents.
//
// Every validator first runs the shared checks (content type, filename,
// size) and then its own. A payload of unknown length is measured by
// streaming it in chunks, and the read stops as soon as the maximum is
// exceeded.
//
// Validators leave the payload rewound to offset zero on success and on a
// rule failure, so the handler can read it again. When the stream itself
// fails the payload is closed and a 500 is returned.
//
//	v := upload.MustImageValidator(
//		upload.MaxSize("5MB"),
//		upload.Formats("PNG", "JPEG"),
//		upload.AspectRatios("16:9"),
//	)
//	f, err := v.FromRequest(r, "avatar")
//	if err != nil {
//		return err // core.HTTPError
//	}
//	defer f.Close()
package upload
