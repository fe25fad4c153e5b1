package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"freee-deals/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	for _, cfg := range []*config.Config{
		{App: config.AppConfig{Env: "development"}, Logging: config.LoggingConfig{Level: "debug"}},
		{App: config.AppConfig{Env: "production"}, Logging: config.LoggingConfig{Level: "warn", Format: "console"}},
		{App: config.AppConfig{Env: "development"}, Logging: config.LoggingConfig{Format: "json"}},
	} {
		logger, err := NewLogger(cfg)
		require.NoError(t, err)
		assert.Equal(t, parseLevel(cfg.Logging.Level) == zapcore.DebugLevel, logger.Core().Enabled(zapcore.DebugLevel))
	}
}
