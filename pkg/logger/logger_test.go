package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level    string
		format   string
		expected zapcore.Level
	}{
		{level: "debug", format: "console", expected: zapcore.DebugLevel},
		{level: "warn", format: "json", expected: zapcore.WarnLevel},
		{level: "ERROR", format: "JSON", expected: zapcore.ErrorLevel},
		{level: "chatty", format: "console", expected: zapcore.InfoLevel},
		{level: "", format: "", expected: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			log, err := New(tt.level, tt.format)
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.expected))
			if tt.expected > zapcore.DebugLevel {
				assert.False(t, log.Core().Enabled(tt.expected-1))
			}
		})
	}
}
