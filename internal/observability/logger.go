// Package observability carries request-scoped logging through tool calls
// and HTTP handlers.
package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	LogFieldRequestID = "request_id"
	LogFieldSessionID = "session_id"
	LogFieldTool      = "tool"
	LogFieldDuration  = "duration_ms"
	LogFieldErrorCode = "error_code"
	LogFieldBookingID = "booking_id"
)

// RequestContext identifies one request in log lines.
type RequestContext struct {
	RequestID string
	SessionID string
	Tool      string
	StartTime time.Time
	Logger    *slog.Logger
}

// NewRequestContext creates a request context with a fresh request ID.
// A nil logger means slog.Default().
func NewRequestContext(logger *slog.Logger, sessionID, tool string) *RequestContext {
	return NewRequestContextWithID(logger, uuid.New().String(), sessionID, tool)
}

// NewRequestContextWithID creates a request context that reuses an upstream request ID.
func NewRequestContextWithID(logger *slog.Logger, requestID, sessionID, tool string) *RequestContext {
	if logger == nil {
		logger = slog.Default()
	}
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return &RequestContext{
		RequestID: requestID,
		SessionID: sessionID,
		Tool:      tool,
		StartTime: time.Now(),
		Logger:    logger,
	}
}

// ForTool returns a copy scoped to one tool call. The request ID is kept.
func (r *RequestContext) ForTool(tool string) *RequestContext {
	c := *r
	c.Tool = tool
	c.StartTime = time.Now()
	return &c
}

func (r *RequestContext) Info(msg string, attrs ...slog.Attr) {
	r.log(slog.LevelInfo, msg, attrs)
}

func (r *RequestContext) Debug(msg string, attrs ...slog.Attr) {
	r.log(slog.LevelDebug, msg, attrs)
}

func (r *RequestContext) Warn(msg string, attrs ...slog.Attr) {
	r.log(slog.LevelWarn, msg, attrs)
}

// Error logs msg with err attached.
func (r *RequestContext) Error(msg string, err error, attrs ...slog.Attr) {
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	r.log(slog.LevelError, msg, attrs)
}

// Duration returns the time since the request started.
func (r *RequestContext) Duration() time.Duration {
	return time.Since(r.StartTime)
}

func (r *RequestContext) DurationMs() int64 {
	return r.Duration().Milliseconds()
}

func (r *RequestContext) log(level slog.Level, msg string, attrs []slog.Attr) {
	all := make([]slog.Attr, 0, len(attrs)+3)
	all = append(all, slog.String(LogFieldRequestID, r.RequestID))
	if r.SessionID != "" {
		all = append(all, slog.String(LogFieldSessionID, r.SessionID))
	}
	if r.Tool != "" {
		all = append(all, slog.String(LogFieldTool, r.Tool))
	}
	all = append(all, attrs...)
	r.Logger.LogAttrs(context.Background(), level, msg, all...)
}

type ctxKey struct{}

// WithRequestContext stores reqCtx in ctx.
func WithRequestContext(ctx context.Context, reqCtx *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, reqCtx)
}

// FromContext returns the request context stored in ctx.
func FromContext(ctx context.Context) (*RequestContext, bool) {
	reqCtx, ok := ctx.Value(ctxKey{}).(*RequestContext)
	return reqCtx, ok
}

// FromContextOrNew returns the stored request context or a fresh one.
func FromContextOrNew(ctx context.Context) *RequestContext {
	if reqCtx, ok := FromContext(ctx); ok {
		return reqCtx
	}
	return NewRequestContext(nil, "", "")
}
