package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "info", FormatJSON)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("corpus loaded", zap.Int("loaded", 3))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "corpus loaded", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "dishcord", entry["service"])
	assert.Equal(t, float64(3), entry["loaded"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "debug", FormatText)
	require.NoError(t, err)

	log.Warn("interpreter fallback", zap.String("reason", "timeout"))

	out := buf.String()
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "interpreter fallback")
	assert.Contains(t, out, `"reason": "timeout"`)
}

func TestNewUnknownFormat(t *testing.T) {
	_, err := New("info", "xml")
	assert.Error(t, err)
}
