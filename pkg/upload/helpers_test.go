package upload_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/paramguard/core"
	"github.com/dmitrymomot/paramguard/pkg/upload"
)

func requireHTTPError(t *testing.T, err error, code int, detail string) {
	t.Helper()
	require.Error(t, err)
	var httpErr core.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, code, httpErr.Code)
	if detail != "" {
		assert.Equal(t, detail, httpErr.Detail)
	}
}

func newFile(t *testing.T, name, contentType string, data []byte) *upload.File {
	t.Helper()
	f, err := upload.NewFile(name, contentType, int64(len(data)), bytes.NewReader(data))
	require.NoError(t, err)
	return f
}

func readAll(t *testing.T, f *upload.File) []byte {
	t.Helper()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return data
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// countingReader counts bytes handed out by Read.
type countingReader struct {
	*bytes.Reader
	read int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.Reader.Read(p)
	c.read += n
	return n, err
}

// endlessReader never reaches EOF.
type endlessReader struct{}

func (endlessReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'x'
	}
	return len(p), nil
}

func (endlessReader) Seek(int64, int) (int64, error) { return 0, nil }

var errDisk = errors.New("disk on fire")

// brokenReader fails every read and records Close.
type brokenReader struct {
	closed bool
}

func (b *brokenReader) Read([]byte) (int, error)       { return 0, errDisk }
func (b *brokenReader) Seek(int64, int) (int64, error) { return 0, nil }
func (b *brokenReader) Close() error {
	b.closed = true
	return nil
}
