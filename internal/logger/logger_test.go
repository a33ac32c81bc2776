package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLevels(t *testing.T) {
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

func TestZapAdapterFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapAdapter(zap.New(core)).
		With(map[string]interface{}{"service": "weather"}).
		WithError(errors.New("boom"))

	l.Warn("查询失败", map[string]interface{}{"city": "Austin"})

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "查询失败", entries[0].Message)
	assert.Equal(t, "weather", fields["service"])
	assert.Equal(t, "Austin", fields["city"])
	assert.Equal(t, "boom", fields["error"])
}

func TestOrNoOp(t *testing.T) {
	l := OrNoOp(nil)
	assert.NotNil(t, l)
	l.Info("ignored", nil)

	test := NewTestLogger(t)
	assert.Same(t, test, OrNoOp(test))
}
