package upload

import (
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"sync"
)

// UnknownSize marks a File whose length was not declared by the transport.
const UnknownSize int64 = -1

// File is an uploaded payload. It is request-scoped and must not be shared
// between goroutines.
type File struct {
	Filename    string
	ContentType string
	// Size is the declared length, or UnknownSize.
	Size   int64
	Header textproto.MIMEHeader

	body   io.ReadSeeker
	closer io.Closer

	closeOnce sync.Once
	closed    bool
	closeErr  error
}

// NewFile wraps body. If body implements io.Closer, Close closes it.
func NewFile(filename, contentType string, size int64, body io.ReadSeeker) (*File, error) {
	if body == nil {
		return nil, ErrNilBody
	}
	f := &File{
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		body:        body,
	}
	if c, ok := body.(io.Closer); ok {
		f.closer = c
	}
	return f, nil
}

// FromFileHeader opens a multipart file part.
func FromFileHeader(fh *multipart.FileHeader) (*File, error) {
	body, err := fh.Open()
	if err != nil {
		return nil, err
	}
	f, err := NewFile(fh.Filename, mediaType(fh.Header.Get("Content-Type")), fh.Size, body)
	if err != nil {
		_ = body.Close()
		return nil, err
	}
	f.Header = fh.Header
	return f, nil
}

// mediaType strips parameters from a Content-Type value.
func mediaType(ct string) string {
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ct
	}
	return mt
}

// Read implements io.Reader.
func (f *File) Read(p []byte) (int, error) {
	if f.closed {
		return 0, ErrFileClosed
	}
	return f.body.Read(p)
}

// Seek implements io.Seeker.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, ErrFileClosed
	}
	return f.body.Seek(offset, whence)
}

// Rewind moves the read position back to the start.
func (f *File) Rewind() error {
	_, err := f.Seek(0, io.SeekStart)
	return err
}

// Close releases the underlying body. It is safe to call more than once.
func (f *File) Close() error {
	f.closeOnce.Do(func() {
		f.closed = true
		if f.closer != nil {
			f.closeErr = f.closer.Close()
		}
	})
	return f.closeErr
}

// Closed reports whether Close has been called.
func (f *File) Closed() bool { return f.closed }
