package logging

import (
	"testing"

	"github.com/aggarwalComputronix/website/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LogConfig
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{name: "json info", cfg: config.LogConfig{Level: "info", Format: "json"}, wantLevel: zapcore.InfoLevel},
		{name: "console debug", cfg: config.LogConfig{Level: "debug", Format: "console"}, wantLevel: zapcore.DebugLevel},
		{name: "empty format falls back to console", cfg: config.LogConfig{Level: "warn"}, wantLevel: zapcore.WarnLevel},
		{name: "bad level", cfg: config.LogConfig{Level: "loud", Format: "json"}, wantErr: true},
		{name: "bad format", cfg: config.LogConfig{Level: "info", Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.wantLevel))
			assert.False(t, logger.Core().Enabled(tt.wantLevel-1))
		})
	}
}
