package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/paramguard/core"
	"github.com/dmitrymomot/paramguard/handler"
	"github.com/dmitrymomot/paramguard/pkg/params"
	"github.com/dmitrymomot/paramguard/pkg/requestid"
	"github.com/dmitrymomot/paramguard/pkg/validator"
)

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Detail
}

func TestWrap_HTTPError(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return core.PayloadTooLarge("File size exceeds the maximum limit of 20B.")
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/upload", nil))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, "File size exceeds the maximum limit of 20B.", decodeDetail(t, rec))
}

func TestWrap_PlainErrorIsHidden(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return errors.New("db password is hunter2")
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, core.DetailInternalServerError, decodeDetail(t, rec))
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestWrap_Panic(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	h := handler.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		panic("boom")
	}, handler.WithLogger(log))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, core.DetailInternalServerError, decodeDetail(t, rec))
	assert.Contains(t, buf.String(), handler.ErrHandlerPanic.Error())
}

func TestWrap_Success(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return core.WriteJSON(w, http.StatusCreated, map[string]string{"ok": "yes"})
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"ok":"yes"}`, rec.Body.String())
}

func TestWrap_LogLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		err   error
		level string
	}{
		{"client error", core.BadRequest("Required header is missing."), "WARN"},
		{"server error", core.InternalServerError(""), "ERROR"},
		{"plain error", errors.New("boom"), "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&buf, nil))

			h := requestid.Middleware(handler.Wrap(func(w http.ResponseWriter, r *http.Request) error {
				return tt.err
			}, handler.WithLogger(log)))

			req := httptest.NewRequest(http.MethodGet, "/items", nil)
			req.Header.Set(requestid.Header, "req-42")
			h.ServeHTTP(httptest.NewRecorder(), req)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "req-42", entry["request_id"])
			assert.Equal(t, http.MethodGet, entry["method"])
			assert.Equal(t, "/items", entry["path"])
		})
	}
}

func TestWrap_CustomErrorHandler(t *testing.T) {
	t.Parallel()

	var got error
	h := handler.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return core.BadRequest("nope")
	}, handler.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
		got = err
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, http.StatusBadRequest, core.StatusOf(got))
}

func TestWrap_DecoratorOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) handler.Decorator {
		return func(next handler.HandlerFunc) handler.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return next(w, r)
			}
		}
	}

	h := handler.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		order = append(order, "handler")
		return nil
	}, handler.WithDecorators(mark("outer"), mark("inner")))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	itemID := params.MustPath("id", params.Int, validator.Gt(0))
	version := params.MustHeader("X-Api-Version", validator.AllowedValues("v1", "v2"))

	called := false
	r := chi.NewRouter()
	r.Get("/items/{id}", handler.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		called = true
		id, err := params.As[int](itemID.FromRequest(r))
		if err != nil {
			return err
		}
		return core.WriteJSON(w, http.StatusOK, map[string]int{"id": id})
	}, handler.WithDecorators(handler.Validate(version, itemID))))

	t.Run("header rejected first", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/items/0", nil)
		req.Header.Set("X-Api-Version", "v3")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Header value 'v3' is not allowed. Allowed values are: v1, v2", decodeDetail(t, rec))
		assert.False(t, called)
	})

	t.Run("path rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/items/0", nil)
		req.Header.Set("X-Api-Version", "v1")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Value must be greater than 0", decodeDetail(t, rec))
	})

	t.Run("passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/items/7", nil)
		req.Header.Set("X-Api-Version", "v2")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":7}`, rec.Body.String())
		assert.True(t, called)
	})
}

func TestWrap_NonJSONBodyUnaffected(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		_, err := w.Write([]byte("plain"))
		return err
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "plain"))
}
