package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	InitLogger(level)
	buf := &bytes.Buffer{}
	Logger.SetOutput(buf)
	return buf
}

func TestLogErrorAddsErrorField(t *testing.T) {
	buf := captureLogger(t, "info")

	LogError("save failed", errors.New("boom"), logrus.Fields{"id": 7})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "save failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "error", entry["level"])
	assert.EqualValues(t, 7, entry["id"])
}

func TestLogErrorToleratesNilErrorAndFields(t *testing.T) {
	buf := captureLogger(t, "info")

	assert.NotPanics(t, func() { LogError("not found", nil, nil) })

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	_, hasErr := entry["error"]
	assert.False(t, hasErr)
}

func TestInitLoggerLevel(t *testing.T) {
	buf := captureLogger(t, "warn")

	LogInfo("hidden", logrus.Fields{})
	LogDebug("hidden", logrus.Fields{})
	assert.Zero(t, buf.Len())

	LogWarn("shown", logrus.Fields{})
	assert.NotZero(t, buf.Len())
}

func TestInitLoggerUnknownLevelFallsBackToInfo(t *testing.T) {
	captureLogger(t, "loud")
	assert.Equal(t, logrus.InfoLevel, Logger.GetLevel())
}
