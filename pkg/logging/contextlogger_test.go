package logging

import (
	"context"
	"testing"

	"github.com/diillson/usuarios-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextLogger_RequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewContextLogger(zap.New(core))

	ctx := WithRequestID(context.Background(), "req-123")
	logger.InfoCtx(ctx, "usuário criado", zap.Int64("id", 1))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, int64(1), fields["id"])
	assert.NotContains(t, fields, "trace_id")
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	_, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = RequestIDFromContext(WithRequestID(context.Background(), ""))
	assert.False(t, ok)
}

func TestNewLoggerWithConfig(t *testing.T) {
	logger, err := NewLoggerWithConfig(config.LoggingConfig{Level: "debug", Format: "console", Production: false})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLoggerWithConfig(config.LoggingConfig{Level: "verbose"})
	assert.Error(t, err)
}
