// Package core holds the transport error shared by every validator in the
// module and the helpers that put it on the wire.
//
// A validator never lets an internal failure type escape: it converts the
// failure into an HTTPError carrying a status code and a detail string.
// WriteError serialises that error as
//
//	{"detail": "<message>"}
//
// with the matching HTTP status. Any other error is rendered as a 500 with a
// generic detail so internal error text is not leaked to clients.
package core
