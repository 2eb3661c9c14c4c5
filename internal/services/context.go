package services

import "context"

type contextKey string

const (
	sessionKey   contextKey = "session"
	stageKey     contextKey = "stage"
	pageKey      contextKey = "page"
	requestIDKey contextKey = "request_id"
)

// WithSession annotates context with the profiling session name.
func WithSession(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionKey, name)
}

// SessionFromContext returns the session name if present.
func SessionFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithPage annotates context with the 1-based physical page index.
func WithPage(ctx context.Context, page int) context.Context {
	if page <= 0 {
		return ctx
	}
	return context.WithValue(ctx, pageKey, page)
}

// PageFromContext extracts the page index if present.
func PageFromContext(ctx context.Context) (int, bool) {
	if v, ok := ctx.Value(pageKey).(int); ok && v > 0 {
		return v, true
	}
	return 0, false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
