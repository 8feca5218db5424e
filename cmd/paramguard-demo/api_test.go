package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/paramguard/pkg/config"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	a, err := newAPI(config.DefaultSettings(), slog.New(slog.DiscardHandler), prometheus.NewRegistry())
	require.NoError(t, err)
	return a.routes()
}

func serve(h http.Handler, r *http.Request) (int, map[string]any) {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec.Code, body
}

func TestGetItem(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	code, body := serve(h, httptest.NewRequest(http.MethodGet, "/items/7?fields=id,price", nil))
	require.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 7, body["id"], 0)
	assert.Equal(t, "v1", body["version"])
	assert.Equal(t, []any{"id", "price"}, body["fields"])

	code, body = serve(h, httptest.NewRequest(http.MethodGet, "/items/abc", nil))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Value 'abc' is not a valid integer.", body["detail"])

	req := httptest.NewRequest(http.MethodGet, "/items/7", nil)
	req.Header.Set("X-Api-Version", "v9")
	code, body = serve(h, req)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Header value 'v9' is not allowed. Allowed values are: v1, v2", body["detail"])
}

func TestSearch(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	code, body := serve(h, httptest.NewRequest(http.MethodGet, "/search?q=go&tag=web&tag=api", nil))
	require.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 10, body["limit"], 0)
	assert.Equal(t, []any{"web", "api"}, body["tags"])

	code, body = serve(h, httptest.NewRequest(http.MethodGet, "/search?q=a--b", nil))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Search text must not contain '--'.", body["detail"])

	code, _ = serve(h, httptest.NewRequest(http.MethodGet, "/search", nil))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSession(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	code, body := serve(h, req)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Cookie is required.", body["detail"])

	req = httptest.NewRequest(http.MethodGet, "/session", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "abcdefghijklmnopqrstuvwxyz012345"})
	req.AddCookie(&http.Cookie{Name: "page_size", Value: "500"})
	code, body = serve(h, req)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Cookie value is not in the allowed range.", body["detail"])
}

func TestUploadAvatar(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	upload := func(w, hgt int) (int, map[string]any) {
		var img bytes.Buffer
		require.NoError(t, png.Encode(&img, image.NewGray(image.Rect(0, 0, w, hgt))))

		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="avatar"; filename="me.png"`)
		header.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(img.Bytes())
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/uploads/avatar", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return serve(h, req)
	}

	code, body := upload(128, 128)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "me.png", body["filename"])

	code, body = upload(160, 90)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["detail"], "Allowed ratios are: 1:1")
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	code, body := serve(newTestRouter(t), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alive", body["status"])
}

func TestMetrics(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	code, _ := serve(h, httptest.NewRequest(http.MethodGet, "/search?q=a", nil))
	require.Equal(t, http.StatusBadRequest, code)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	var line string
	for l := range strings.Lines(string(body)) {
		if strings.HasPrefix(l, "paramguard_validation_failures_total{") {
			line = strings.TrimSpace(l)
		}
	}
	assert.Equal(t,
		`paramguard_validation_failures_total{component="query parameter",kind="rule_violation",param="q",rule="length",status="400"} 1`,
		line)
}
