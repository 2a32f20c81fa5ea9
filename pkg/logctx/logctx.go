package logctx

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ctxKey string

const (
	// LoggerKey holds a request-scoped logger in gin and std contexts.
	LoggerKey ctxKey = "logger"
	// TraceIDKey holds the request trace id.
	TraceIDKey ctxKey = "traceID"
	// MemberIDKey holds the member the current operation is about.
	MemberIDKey ctxKey = "member_id"
)

// FromGin returns the request-scoped logger from gin.Context if present,
// otherwise the provided base logger enriched from the request context.
func FromGin(c *gin.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if c == nil {
		return base
	}
	if l, ok := c.Get(string(LoggerKey)); ok {
		if lg, ok := l.(*zap.SugaredLogger); ok && lg != nil {
			return lg
		}
	}
	return FromCtx(c.Request.Context(), base)
}

// FromCtx returns a logger from context if set, otherwise attempts to enrich
// base with trace_id/member_id from context values.
func FromCtx(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if ctx == nil {
		return base
	}
	lg, _ := ctx.Value(LoggerKey).(*zap.SugaredLogger)
	if lg == nil {
		lg = base
		if tid, ok := ctx.Value(TraceIDKey).(string); ok && tid != "" {
			lg = lg.With("trace_id", tid)
		}
	}
	if mid, ok := ctx.Value(MemberIDKey).(string); ok && mid != "" {
		lg = lg.With("member_id", mid)
	}
	return lg
}

// WithMemberID tags ctx so that loggers derived from it carry member_id.
func WithMemberID(ctx context.Context, memberID string) context.Context {
	return context.WithValue(ctx, MemberIDKey, memberID)
}

// WithLogger stores a request-scoped logger on ctx.
func WithLogger(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, LoggerKey, l)
}
