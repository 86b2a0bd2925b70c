package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr string
		level   zapcore.Level
	}{
		{name: "defaults to json", cfg: LogConfig{Level: "info"}, level: zapcore.InfoLevel},
		{name: "console debug", cfg: LogConfig{Level: "debug", Format: "console"}, level: zapcore.DebugLevel},
		{name: "json warn", cfg: LogConfig{Level: "warn", Format: "json"}, level: zapcore.WarnLevel},
		{name: "invalid level", cfg: LogConfig{Level: "loud"}, wantErr: `invalid log level "loud"`},
		{name: "invalid format", cfg: LogConfig{Level: "info", Format: "xml"}, wantErr: `invalid log format "xml"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := NewLogger(tc.cfg)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				assert.Nil(t, logger)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tc.level))
			assert.False(t, logger.Core().Enabled(tc.level-1))
		})
	}
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "firerisk.log")

	logger, err := NewLogger(LogConfig{Level: "info", File: path})
	require.NoError(t, err)

	logger.Info("refresh completed")
	logger.Debug("below level")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"refresh completed"`)
	assert.NotContains(t, string(data), "below level")
}
