package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapter_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "submit-application"})

	log.Warn("payment proof rejected", map[string]interface{}{
		"error": errors.New("too large"),
		"size":  2048,
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "submit-application", fields["taskType"])
	assert.Equal(t, "too large", fields["error"])
	assert.EqualValues(t, 2048, fields["size"])
}

func TestZapAdapter_WithError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapAdapter(zap.New(core)).WithError(errors.New("redis down"))

	log.Debug("dropped", nil)
	log.Error("cache write failed", nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "redis down", logs.All()[0].ContextMap()["error"])
}

func TestContextHelpers(t *testing.T) {
	fallback := NewNoOpLogger()
	ctx := context.Background()

	assert.Equal(t, fallback, FromContext(ctx, fallback))
	assert.Equal(t, "", RequestID(ctx))

	scoped := NewTestLogger(t)
	ctx = IntoContext(WithRequestID(ctx, "req-1"), scoped)
	assert.Equal(t, scoped, FromContext(ctx, fallback))
	assert.Equal(t, "req-1", RequestID(ctx))
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"unknown", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := New(tt.level, "json")
			assert.True(t, l.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.want-1))
			}
		})
	}
}
