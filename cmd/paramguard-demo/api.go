package main

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/paramguard/core"
	"github.com/dmitrymomot/paramguard/handler"
	"github.com/dmitrymomot/paramguard/pkg/config"
	"github.com/dmitrymomot/paramguard/pkg/httpserver"
	"github.com/dmitrymomot/paramguard/pkg/metrics"
	"github.com/dmitrymomot/paramguard/pkg/params"
	"github.com/dmitrymomot/paramguard/pkg/requestid"
	"github.com/dmitrymomot/paramguard/pkg/upload"
	"github.com/dmitrymomot/paramguard/pkg/validator"
)

// api holds validators built once at startup and shared by every request.
type api struct {
	log     *slog.Logger
	metrics http.Handler

	apiVersion *params.Header
	itemID     *params.Path
	fields     *params.Query
	search     *params.Query
	limit      *params.Query
	tags       *params.Query
	session    *params.Cookie
	pageSize   *params.Cookie

	avatar   *upload.ImageValidator
	imports  *upload.CSVValidator
	document *upload.FileValidator
}

func newAPI(s config.Settings, log *slog.Logger, reg *prometheus.Registry) (*api, error) {
	failures := metrics.New(reg)
	withLog := validator.WithLogger(log)
	observe := validator.WithObserver(failures)
	a := &api{log: log, metrics: metrics.Handler(reg)}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	var err error

	a.apiVersion, err = params.NewHeader("x_api_version",
		validator.AllowedValues("v1", "v2"),
		validator.Default("v1"),
		withLog,
		observe,
	)
	collect(err)

	a.itemID, err = params.NewPath("id", params.Int, validator.Gt(0), validator.Le(1_000_000), withLog, observe)
	collect(err)

	a.fields, err = params.NewQuery("fields", params.String,
		validator.Pattern(`^[a-z_]+(,[a-z_]+)*$`),
		validator.Default("id,name"),
		withLog,
		observe,
	)
	collect(err)

	a.search, err = params.NewQuery("q", params.String,
		validator.MinLength(2),
		validator.MaxLength(100),
		validator.WithPredicate(validator.Bool(func(v any) bool {
			return !strings.Contains(v.(string), "--")
		})),
		validator.WithMessages(validator.Messages{Custom: validator.Literal("Search text must not contain '--'.")}),
		withLog,
		observe,
	)
	collect(err)

	a.limit, err = params.NewQuery("limit", params.Int, validator.Ge(1), validator.Le(100), validator.Default(10), withLog, observe)
	collect(err)

	a.tags, err = params.NewQuery("tag", params.String,
		validator.Required(false),
		validator.Format("alphanumeric"),
		validator.MaxLength(32),
		withLog,
		observe,
	)
	collect(err)

	a.session, err = params.NewCookie("session_id", validator.Format("session_id"), withLog, observe)
	collect(err)

	a.pageSize, err = params.NewCookie("page_size", validator.Ge(1), validator.Le(100), validator.Default(20.0), withLog, observe)
	collect(err)

	uploadLog := upload.WithLogger(log)
	uploadObserve := upload.WithObserver(failures)
	a.avatar, err = upload.NewImageValidator(
		upload.WithSettings(s),
		upload.MaxSize("2MB"),
		upload.Formats("PNG", "JPEG", "WEBP"),
		upload.MinResolution(64, 64),
		upload.AspectRatios("1:1"),
		uploadLog,
		uploadObserve,
	)
	collect(err)

	a.imports, err = upload.NewCSVValidator(
		upload.WithSettings(s),
		upload.MaxSize("10MB"),
		upload.Encodings("utf-8", "latin-1"),
		upload.RequiredColumns("email"),
		upload.DisallowedColumns("password"),
		upload.MaxRows(10_000),
		uploadLog,
		uploadObserve,
	)
	collect(err)

	a.document, err = upload.NewFileValidator(
		upload.WithSettings(s),
		upload.MaxSize("20MB"),
		upload.ContentTypes("application/pdf"),
		upload.SniffContent(),
		upload.FilenamePattern(`(?i)\.pdf$`),
		uploadLog,
		uploadObserve,
	)
	collect(err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return a, nil
}

func (a *api) routes() http.Handler {
	wrap := func(h handler.HandlerFunc, decorators ...handler.Decorator) http.HandlerFunc {
		return handler.Wrap(h, handler.WithLogger(a.log), handler.WithDecorators(decorators...))
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	r.Get("/healthz", httpserver.HealthCheckHandler(a.log))
	r.Handle("/metrics", a.metrics)
	r.Get("/items/{id}", wrap(a.getItem, handler.Validate(a.apiVersion)))
	r.Get("/search", wrap(a.searchItems))
	r.Get("/session", wrap(a.getSession))
	r.Post("/uploads/avatar", wrap(a.uploadAvatar))
	r.Post("/uploads/import", wrap(a.uploadImport))
	r.Post("/uploads/document", wrap(a.uploadDocument))
	return r
}

func (a *api) getItem(w http.ResponseWriter, r *http.Request) error {
	id, err := params.As[int](a.itemID.FromRequest(r))
	if err != nil {
		return err
	}
	fields, err := params.As[string](a.fields.FromRequest(r))
	if err != nil {
		return err
	}
	version, err := params.As[string](a.apiVersion.FromRequest(r))
	if err != nil {
		return err
	}
	return core.WriteJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"fields":  strings.Split(fields, ","),
		"version": version,
	})
}

func (a *api) searchItems(w http.ResponseWriter, r *http.Request) error {
	q, err := params.As[string](a.search.FromRequest(r))
	if err != nil {
		return err
	}
	limit, err := params.As[int](a.limit.FromRequest(r))
	if err != nil {
		return err
	}
	tags, err := a.tags.ValidateAll(r)
	if err != nil {
		return err
	}
	return core.WriteJSON(w, http.StatusOK, map[string]any{
		"q":     q,
		"limit": limit,
		"tags":  tags,
	})
}

func (a *api) getSession(w http.ResponseWriter, r *http.Request) error {
	session, err := params.As[string](a.session.FromRequest(r))
	if err != nil {
		return err
	}
	pageSize, err := params.As[float64](a.pageSize.FromRequest(r))
	if err != nil {
		return err
	}
	return core.WriteJSON(w, http.StatusOK, map[string]any{
		"session":   session,
		"page_size": int(pageSize),
	})
}

func (a *api) uploadAvatar(w http.ResponseWriter, r *http.Request) error {
	f, err := a.avatar.FromRequest(r, "avatar")
	if err != nil {
		return err
	}
	return a.accept(w, f)
}

func (a *api) uploadImport(w http.ResponseWriter, r *http.Request) error {
	f, err := a.imports.FromRequest(r, "file")
	if err != nil {
		return err
	}
	return a.accept(w, f)
}

func (a *api) uploadDocument(w http.ResponseWriter, r *http.Request) error {
	f, err := a.document.FromRequest(r, "document")
	if err != nil {
		return err
	}
	return a.accept(w, f)
}

// accept drains a validated upload, which is positioned at offset zero.
func (a *api) accept(w http.ResponseWriter, f *upload.File) error {
	defer f.Close()
	n, err := io.Copy(io.Discard, f)
	if err != nil {
		return err
	}
	return core.WriteJSON(w, http.StatusCreated, map[string]any{
		"filename":     f.Filename,
		"content_type": f.ContentType,
		"bytes":        n,
	})
}
