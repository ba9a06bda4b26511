// Package obs provides logging, metrics, and tracing.
//
// Every named operation in the service runs inside the same envelope: one
// trace span, identifying attributes, a <phase>.time measurement, and one
// structured log line mirroring the span attributes. Instrument is that
// envelope; stores, the validator, and the request handlers all go through it.
package obs

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "course-catalog"

// Op names one instrumented operation.
type Op struct {
	// Name is the span name and the default log event.
	Name string
	// Operation, when set, lands on the span as the operation attribute.
	Operation string
	// Kind distinguishes server spans (request handlers) from internal ones
	// (store, validator). Zero value means internal.
	Kind trace.SpanKind
	// Phase, when set, records <Phase>.time in seconds when the operation
	// completes.
	Phase string
}

// OpSpan accumulates attributes that land on the span and in the mirrored log
// line. The wrapped function adds operation-specific attributes through it and
// may override the completion event name or level.
type OpSpan struct {
	span  trace.Span
	event string
	level slog.Level
	attrs []slog.Attr
}

// Event overrides the log event emitted when the operation completes.
func (s *OpSpan) Event(name string) { s.event = name }

// Warn downgrades the completion log line to warning level.
func (s *OpSpan) Warn() { s.level = slog.LevelWarn }

// Error raises the completion log line to error level. Unlike a failing fn it
// leaves the span status alone; the operation itself still completed.
func (s *OpSpan) Error() { s.level = slog.LevelError }

// SetString records a string attribute on the span and the log line.
func (s *OpSpan) SetString(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
	s.attrs = append(s.attrs, slog.String(key, value))
}

// SetInt records an int attribute on the span and the log line.
func (s *OpSpan) SetInt(key string, value int) {
	s.span.SetAttributes(attribute.Int(key, value))
	s.attrs = append(s.attrs, slog.Int(key, value))
}

// SetFloat64 records a float attribute on the span and the log line.
func (s *OpSpan) SetFloat64(key string, value float64) {
	s.span.SetAttributes(attribute.Float64(key, value))
	s.attrs = append(s.attrs, slog.Float64(key, value))
}

// SetBool records a bool attribute on the span and the log line.
func (s *OpSpan) SetBool(key string, value bool) {
	s.span.SetAttributes(attribute.Bool(key, value))
	s.attrs = append(s.attrs, slog.Bool(key, value))
}

// Instrument runs fn inside the operation envelope. It starts a span named
// op.Name, attaches request metadata from the context (method/url/ip on server
// spans, url on internal ones), runs fn, records <phase>.time, and emits one
// log line mirroring the accumulated attributes: info (or warn, when fn asked
// for it) on success, error with span status Error when fn fails. The span
// nests under any span already in ctx, so handler spans parent store and
// validator spans.
func Instrument(ctx context.Context, op Op, fn func(ctx context.Context, os *OpSpan) error) error {
	start := time.Now()
	kind := op.Kind
	if kind == trace.SpanKindUnspecified {
		kind = trace.SpanKindInternal
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, op.Name, trace.WithSpanKind(kind))
	defer span.End()

	o := &OpSpan{span: span, event: op.Name, level: slog.LevelInfo}
	if op.Operation != "" {
		span.SetAttributes(attribute.String("operation", op.Operation))
	}
	if meta, ok := RequestMetaFromContext(ctx); ok {
		if kind == trace.SpanKindServer {
			o.SetString("http.method", meta.Method)
			o.SetString("http.url", meta.URL)
			o.SetString("user.ip", meta.ClientIP)
		} else {
			o.SetString("http.url", meta.URL)
		}
	}

	err := fn(ctx, o)

	if op.Phase != "" {
		o.SetFloat64(op.Phase+".time", time.Since(start).Seconds())
	}

	lg := LoggerFromContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		attrs := append(o.attrs, slog.String("error.message", err.Error()))
		lg.LogAttrs(ctx, slog.LevelError, o.event, attrs...)
		return err
	}
	lg.LogAttrs(ctx, o.level, o.event, o.attrs...)
	return nil
}
