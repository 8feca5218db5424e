package upload_test

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/paramguard/pkg/upload"
	"github.com/dmitrymomot/paramguard/pkg/validator"
)

func TestFileValidator_MaxSizeUnknownLength(t *testing.T) {
	t.Parallel()

	v := upload.MustFileValidator(upload.MaxSize("20B"), upload.ChunkSize(8))
	payload := []byte(strings.Repeat("a", 40))
	src := &countingReader{Reader: bytes.NewReader(payload)}
	f, err := upload.NewFile("big.bin", "application/octet-stream", upload.UnknownSize, src)
	require.NoError(t, err)

	_, err = v.Validate(context.Background(), f)
	requireHTTPError(t, err, http.StatusRequestEntityTooLarge, "File size exceeds the maximum limit of 20B.")

	// the read stopped at the first chunk past the limit
	assert.Equal(t, 24, src.read)
	assert.False(t, f.Closed())
	assert.Equal(t, payload, readAll(t, f))
}

func TestFileValidator_MaxSizeEndlessStream(t *testing.T) {
	t.Parallel()

	v := upload.MustFileValidator(upload.MaxSize("1KB"))
	f, err := upload.NewFile("stream", "", upload.UnknownSize, endlessReader{})
	require.NoError(t, err)

	_, err = v.Validate(context.Background(), f)
	requireHTTPError(t, err, http.StatusRequestEntityTooLarge, "File size exceeds the maximum limit of 1KB.")
}

func TestFileValidator_DeclaredSize(t *testing.T) {
	t.Parallel()

	t.Run("too large", func(t *testing.T) {
		v := upload.MustFileValidator(upload.MaxSize("20B"))
		_, err := v.Validate(context.Background(), newFile(t, "a.txt", "text/plain", make([]byte, 40)))
		requireHTTPError(t, err, http.StatusRequestEntityTooLarge, "File size (40 bytes) exceeds the maximum limit of 20B.")
	})

	t.Run("too small", func(t *testing.T) {
		v := upload.MustFileValidator(upload.MinSize("1KB"))
		_, err := v.Validate(context.Background(), newFile(t, "a.txt", "text/plain", make([]byte, 10)))
		requireHTTPError(t, err, http.StatusBadRequest, "File size (10 bytes) is less than the minimum requirement of 1KB.")
	})

	t.Run("within bounds", func(t *testing.T) {
		v := upload.MustFileValidator(upload.MinBytes(5), upload.MaxBytes(20))
		data := []byte("hello world")
		f, err := v.Validate(context.Background(), newFile(t, "a.txt", "text/plain", data))
		require.NoError(t, err)
		assert.Equal(t, data, readAll(t, f))
	})
}

func TestFileValidator_ReadErrorClosesFile(t *testing.T) {
	t.Parallel()

	v := upload.MustFileValidator(upload.MaxSize("1MB"))
	body := &brokenReader{}
	f, err := upload.NewFile("broken.bin", "", upload.UnknownSize, body)
	require.NoError(t, err)

	_, err = v.Validate(context.Background(), f)
	requireHTTPError(t, err, http.StatusInternalServerError, "An unexpected error occurred during file validation.")
	assert.NotContains(t, err.Error(), errDisk.Error())
	assert.True(t, f.Closed())
	assert.True(t, body.closed)

	_, err = f.Read(make([]byte, 1))
	require.ErrorIs(t, err, upload.ErrFileClosed)
}

func TestFileValidator_ContentType(t *testing.T) {
	t.Parallel()

	v := upload.MustFileValidator(upload.ContentTypes("image/*", "application/pdf"))

	_, err := v.Validate(context.Background(), newFile(t, "a.txt", "text/plain", []byte("hi")))
	requireHTTPError(t, err, http.StatusUnsupportedMediaType,
		"File has an unsupported media type: 'text/plain'. Allowed types are: image/*, application/pdf")

	_, err = v.Validate(context.Background(), newFile(t, "a.png", "image/png", []byte("hi")))
	require.NoError(t, err)

	_, err = v.Validate(context.Background(), newFile(t, "a.pdf", "Application/PDF", []byte("hi")))
	require.NoError(t, err)
}

func TestFileValidator_SniffContent(t *testing.T) {
	t.Parallel()

	v := upload.MustFileValidator(upload.ContentTypes("image/png"), upload.SniffContent())

	_, err := v.Validate(context.Background(), newFile(t, "fake.png", "image/png", []byte("just some text")))
	requireHTTPError(t, err, http.StatusUnsupportedMediaType,
		"File has an unsupported media type: 'text/plain'. Allowed types are: image/png")

	data := pngBytes(t, 4, 4)
	f, err := v.Validate(context.Background(), newFile(t, "real.png", "application/octet-stream", data))
	require.NoError(t, err)
	assert.Equal(t, data, readAll(t, f))
}

func TestMatchContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ct      string
		allowed []string
		want    bool
	}{
		{"image/png", []string{"image/png"}, true},
		{"image/png", []string{"image/*"}, true},
		{"IMAGE/PNG", []string{"image/png"}, true},
		{"text/csv; charset=utf-8", []string{"text/csv"}, true},
		{"application/json", []string{"*/*"}, true},
		{"imagex/png", []string{"image/*"}, false},
		{"text/plain", []string{"image/*"}, false},
		{"", []string{"image/*"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.ct, func(t *testing.T) {
			assert.Equal(t, tt.want, upload.MatchContentType(tt.ct, tt.allowed))
		})
	}
}

func TestFileValidator_Filename(t *testing.T) {
	t.Parallel()

	v := upload.MustFileValidator(upload.FilenamePattern(`\.pdf$`))

	_, err := v.Validate(context.Background(), newFile(t, "report.txt", "", []byte("x")))
	requireHTTPError(t, err, http.StatusBadRequest, "Filename 'report.txt' does not match the required pattern.")

	_, err = v.Validate(context.Background(), newFile(t, "", "", []byte("x")))
	requireHTTPError(t, err, http.StatusBadRequest, "Filename '' does not match the required pattern.")

	_, err = v.Validate(context.Background(), newFile(t, "annual report.pdf", "", []byte("x")))
	require.NoError(t, err)
}

func TestFileValidator_CheckOrder(t *testing.T) {
	t.Parallel()

	v := upload.MustFileValidator(
		upload.ContentTypes("application/pdf"),
		upload.FilenamePattern(`\.pdf$`),
		upload.MaxSize("1B"),
	)
	_, err := v.Validate(context.Background(), newFile(t, "a.txt", "text/plain", []byte("too big")))
	requireHTTPError(t, err, http.StatusUnsupportedMediaType, "")

	_, err = v.Validate(context.Background(), newFile(t, "a.txt", "application/pdf", []byte("too big")))
	requireHTTPError(t, err, http.StatusBadRequest, "Filename 'a.txt' does not match the required pattern.")
}

func TestFileValidator_Overrides(t *testing.T) {
	t.Parallel()

	v := upload.MustFileValidator(
		upload.MaxSize("20B"),
		upload.OnSizeError(validator.Computed(func(v any) string {
			return v.(*upload.File).Filename + " is too big"
		})),
		upload.ContentTypes("text/plain"),
		upload.OnTypeError(validator.Literal("Plain text only.")),
	)

	_, err := v.Validate(context.Background(), newFile(t, "big.txt", "text/plain", make([]byte, 40)))
	requireHTTPError(t, err, http.StatusRequestEntityTooLarge, "big.txt is too big")

	_, err = v.Validate(context.Background(), newFile(t, "a.csv", "text/csv", nil))
	requireHTTPError(t, err, http.StatusUnsupportedMediaType, "Plain text only.")
}

func TestFileValidator_NilFile(t *testing.T) {
	t.Parallel()

	v := upload.MustFileValidator()
	_, err := v.Validate(context.Background(), nil)
	requireHTTPError(t, err, http.StatusBadRequest, "File is required.")
}

func TestFileValidator_Configuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opt  upload.Option
		want error
	}{
		{"size", upload.MaxSize("20 bananas"), upload.ErrInvalidSize},
		{"size overflow", upload.MaxSize("8388608TB"), upload.ErrInvalidSize},
		{"negative max bytes", upload.MaxBytes(-1), upload.ErrInvalidSize},
		{"negative min bytes", upload.MinBytes(-5), upload.ErrInvalidSize},
		{"pattern", upload.FilenamePattern(`(`), upload.ErrInvalidPattern},
		{"chunk", upload.ChunkSize(0), upload.ErrInvalidChunkSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := upload.NewFileValidator(tt.opt)
			require.ErrorIs(t, err, validator.ErrConfiguration)
			require.ErrorIs(t, err, tt.want)
			assert.Panics(t, func() { upload.MustFileValidator(tt.opt) })
		})
	}
}

func TestNewFile_NilBody(t *testing.T) {
	t.Parallel()

	_, err := upload.NewFile("a", "", 0, nil)
	require.ErrorIs(t, err, upload.ErrNilBody)
}
