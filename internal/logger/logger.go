// Package logger builds the zap logger shared by the server and the CLI.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

var shortLevels = map[zapcore.Level]string{
	zapcore.DebugLevel: "DBG",
	zapcore.InfoLevel:  "INF",
	zapcore.WarnLevel:  "WRN",
	zapcore.ErrorLevel: "ERR",
	zapcore.FatalLevel: "FAT",
}

// ParseLevel maps a level name to a zap level. Unknown names are info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a logger writing to stdout
func New(level, format string) (*zap.Logger, error) {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter builds a logger writing to w
func NewWithWriter(w io.Writer, level, format string) (*zap.Logger, error) {
	var encoder zapcore.Encoder
	switch strings.ToLower(format) {
	case FormatJSON:
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "time"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeDuration = zapcore.StringDurationEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	case FormatText, "":
		encoder = zapcore.NewConsoleEncoder(textEncoderConfig())
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), ParseLevel(level))
	return zap.New(core, zap.Fields(zap.String("service", "dishcord"))), nil
}

func textEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    shortLevelEncoder,
		EncodeTime:     clockEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

func clockEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05.000"))
}

func shortLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if s, ok := shortLevels[l]; ok {
		enc.AppendString(s)
		return
	}
	enc.AppendString(l.CapitalString())
}
