package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextBindsRequestID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := New(zap.New(core))

	ctx := ContextWithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))

	log.WithContext(ctx).WithTaskID("t1").WithBoardID("b1").WithError(errors.New("boom")).Warn("moved")
	log.WithContext(context.Background()).Info("plain")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]interface{}{
		"request_id": "req-1",
		"task_id":    "t1",
		"board_id":   "b1",
		"error":      "boom",
	}, entries[0].ContextMap())
	assert.Empty(t, entries[1].ContextMap())
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	log, err := NewLogger(LoggingConfig{Level: "loud", Format: "json", OutputPath: "stderr"})
	require.NoError(t, err)
	assert.False(t, log.zap.Core().Enabled(zap.DebugLevel))
	assert.True(t, log.zap.Core().Enabled(zap.InfoLevel))
}

func TestDetectFormat(t *testing.T) {
	t.Setenv("KUBERNETES_SERVICE_HOST", "")
	t.Setenv("BOARDTASK_ENV", "production")
	assert.Equal(t, "json", DetectFormat())
	t.Setenv("BOARDTASK_ENV", "")
	assert.Equal(t, "text", DetectFormat())
}
