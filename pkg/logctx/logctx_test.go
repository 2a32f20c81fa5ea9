package logctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromCtx_EnrichesTraceAndMember(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core).Sugar()

	ctx := context.WithValue(context.Background(), TraceIDKey, "trace-1")
	ctx = WithMemberID(ctx, "42")
	FromCtx(ctx, base).Infow("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	require.Equal(t, "trace-1", fields["trace_id"])
	require.Equal(t, "42", fields["member_id"])
}

func TestFromCtx_PrefersStoredLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	stored := zap.New(core).Sugar().With("scope", "request")

	ctx := WithLogger(context.Background(), stored)
	FromCtx(ctx, zap.NewNop().Sugar()).Infow("hello")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "request", logs.All()[0].ContextMap()["scope"])
}

func TestFromCtx_NilContext(t *testing.T) {
	base := zap.NewNop().Sugar()
	//nolint:staticcheck
	require.Same(t, base, FromCtx(nil, base))
}
