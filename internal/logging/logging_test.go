package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		development bool
		enabled     zapcore.Level
		disabled    zapcore.Level
	}{
		{"default level", "", false, zapcore.InfoLevel, zapcore.DebugLevel},
		{"debug development", "debug", true, zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"warn production", "warn", false, zapcore.WarnLevel, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.development)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.enabled))
			assert.False(t, logger.Core().Enabled(tt.disabled))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", false)
	assert.Error(t, err)
}
