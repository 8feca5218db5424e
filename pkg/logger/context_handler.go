package logger

import (
	"context"
	"log/slog"
	"unicode/utf8"
)

// ContextExtractor extracts a slog attribute from context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// truncatedSuffix marks a string value shortened by the value limit.
const truncatedSuffix = "...(truncated)"

// contextHandler injects attributes pulled from context and shortens long
// string values. Rejected parameter values are echoed into failure messages,
// so a single oversized header would otherwise land in the log verbatim.
type contextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
	limit      int
}

func newContextHandler(next slog.Handler, limit int, extractors ...ContextExtractor) slog.Handler {
	if len(extractors) == 0 && limit <= 0 {
		return next
	}
	return &contextHandler{next: next, extractors: extractors, limit: limit}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	if h.limit > 0 {
		out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
		rec.Attrs(func(a slog.Attr) bool {
			out.AddAttrs(h.clip(a))
			return true
		})
		rec = out
	}
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(h.clip(attr))
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clipped := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clipped[i] = h.clip(a)
	}
	return &contextHandler{next: h.next.WithAttrs(clipped), extractors: h.extractors, limit: h.limit}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), extractors: h.extractors, limit: h.limit}
}

// clip shortens string values (also inside groups and errors) to limit runes.
func (h *contextHandler) clip(a slog.Attr) slog.Attr {
	if h.limit <= 0 {
		return a
	}
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, clipString(v.String(), h.limit))
	case slog.KindGroup:
		group := v.Group()
		clipped := make([]slog.Attr, len(group))
		for i, g := range group {
			clipped[i] = h.clip(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clipped...)}
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, clipString(err.Error(), h.limit))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}

func clipString(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + truncatedSuffix
		}
		n++
	}
	return s
}
