package logger

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("Error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatConsole, ParseFormat("console"))
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat(""))
}

func TestJSONLoggerWritesComponent(t *testing.T) {
	var buf bytes.Buffer
	log := For(NewWithSink("INFO", FormatJSON, zapcore.AddSync(&buf)), ComponentStore)

	log.Debug("hidden")
	log.Info("record created", zap.Int64("id", 7))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "record created", entry["msg"])
	assert.Equal(t, ComponentStore, entry["component"])
	assert.EqualValues(t, 7, entry["id"])
	assert.Contains(t, entry, "caller")
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithSink("DEBUG", FormatConsole, zapcore.AddSync(&buf))

	log.Debug("starting")
	assert.Contains(t, buf.String(), " | ")
	assert.Contains(t, buf.String(), "starting")
}
