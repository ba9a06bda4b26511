package obs

import (
	"context"
	"log/slog"
)

// loggerContextKey is the private context key used to store a *slog.Logger.
type loggerContextKey struct{}

// requestIDContextKey is the private context key used to store the originating
// HTTP request_id so deeper layers can correlate their logs with the request.
type requestIDContextKey struct{}

// requestMetaContextKey is the private context key used to store RequestMeta.
type requestMetaContextKey struct{}

// RequestMeta carries the identifying attributes of the inbound request that
// every span in the request's trace repeats: full URL, method, client IP.
type RequestMeta struct {
	Method   string
	URL      string
	ClientIP string
}

// ContextWithLogger attaches a non-nil logger to the context.
func ContextWithLogger(ctx context.Context, lg *slog.Logger) context.Context {
	if ctx == nil || lg == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, lg)
}

// LoggerFromContext returns the logger stored in the context or the default
// slog logger when none is present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if v := ctx.Value(loggerContextKey{}); v != nil {
		if lg, ok := v.(*slog.Logger); ok && lg != nil {
			return lg
		}
	}
	return slog.Default()
}

// ContextWithRequestID stores a non-empty request_id in the context.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// RequestIDFromContext retrieves the request_id from the context, or an empty
// string when none is present.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v := ctx.Value(requestIDContextKey{}); v != nil {
		if rid, ok := v.(string); ok {
			return rid
		}
	}
	return ""
}

// ContextWithRequestMeta stores the request metadata in the context so nested
// operations can attach it to their spans.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	if ctx == nil {
		return ctx
	}
	return context.WithValue(ctx, requestMetaContextKey{}, meta)
}

// RequestMetaFromContext retrieves the request metadata, reporting whether any
// was stored.
func RequestMetaFromContext(ctx context.Context) (RequestMeta, bool) {
	if ctx == nil {
		return RequestMeta{}, false
	}
	if v := ctx.Value(requestMetaContextKey{}); v != nil {
		if meta, ok := v.(RequestMeta); ok {
			return meta, true
		}
	}
	return RequestMeta{}, false
}
