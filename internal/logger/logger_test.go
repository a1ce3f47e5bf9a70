package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want *zapcore.Level
	}{
		{in: "debug", want: levelPtr(zapcore.DebugLevel)},
		{in: "info", want: levelPtr(zapcore.InfoLevel)},
		{in: "warn", want: levelPtr(zapcore.WarnLevel)},
		{in: "error", want: levelPtr(zapcore.ErrorLevel)},
		{in: "verbose", want: nil},
		{in: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNewWithFile_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nstatus.log")

	log := NewWithFile("info", false, FileOptions{Path: path, MaxSizeMB: 1})
	log.Info("tick finished", String("outcome", "edited"), Int("players", 4))
	log.Debug("filtered out")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"tick finished"`)
	assert.Contains(t, string(data), `"outcome":"edited"`)
	assert.NotContains(t, string(data), "filtered out")
}

func levelPtr(l zapcore.Level) *zapcore.Level { return &l }
