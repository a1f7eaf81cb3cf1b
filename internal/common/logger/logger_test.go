// internal/common/logger/logger_test.go
package logger

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// ==========================
// Test Helper Functions
// ==========================

func observed(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewZapAdapter(zap.New(core)), logs
}

func fieldKeys(entry observer.LoggedEntry) []string {
	keys := make([]string, 0, len(entry.Context))
	for _, f := range entry.Context {
		keys = append(keys, f.Key)
	}
	return keys
}

// ==========================
// Core Functionality Tests
// ==========================

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{" DEBUG ", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.in))
		})
	}
}

func TestBuild_StampsServiceAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workers.log")
	l := Build(Options{
		Level:       "info",
		Format:      "json",
		Output:      path,
		Service:     "readiness-workers",
		Environment: "test",
	})
	l.Debug("dropped below level")
	l.Info("assessment stored", zap.String("assessmentId", "a-1"))
	require.NoError(t, l.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "assessment stored", entry["msg"])
	assert.Equal(t, "readiness-workers", entry["service"])
	assert.Equal(t, "test", entry["environment"])
	assert.Equal(t, "a-1", entry["assessmentId"])
}

func TestBuild_BadOutputFallsBackToStderr(t *testing.T) {
	l := Build(Options{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Info("still logging") })
}

func TestZapAdapter_FieldsAreSortedAndErrorsNamed(t *testing.T) {
	log, logs := observed(zapcore.DebugLevel)

	log.WithFields(map[string]interface{}{"taskType": "compute-readiness-score"}).
		Warn("answer ignored", map[string]interface{}{
			"questionId": "infra_connectivity",
			"error":      errors.New("out of range"),
			"country":    "NG",
		})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, []string{"taskType", "country", "error", "questionId"}, fieldKeys(entry))

	ctx := entry.ContextMap()
	assert.Equal(t, "out of range", ctx["error"])
	assert.Equal(t, "compute-readiness-score", ctx["taskType"])
}

func TestZapAdapter_WithErrorAndLevels(t *testing.T) {
	log, logs := observed(zapcore.InfoLevel)

	log.Debug("hidden", nil)
	log.WithError(errors.New("redis down")).Error("draft save failed", nil)
	log.With(map[string]interface{}{"country": "KE"}).Info("indicators refreshed", nil)

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "redis down", logs.All()[0].ContextMap()["error"])
	assert.Equal(t, "KE", logs.All()[1].ContextMap()["country"])
}

func TestKeyValueAdapter(t *testing.T) {
	log, logs := observed(zapcore.DebugLevel)
	kv := NewKeyValueAdapter(log)

	kv.Info("schedule", "now", "12:00", "entry", 1)
	kv.Error(errors.New("panic in job"), "recovered", "stack")
	kv.Error(nil, "nil error")

	require.Equal(t, 3, logs.Len())
	all := logs.All()

	assert.Equal(t, zapcore.DebugLevel, all[0].Level)
	assert.Equal(t, "12:00", all[0].ContextMap()["now"])
	assert.EqualValues(t, 1, all[0].ContextMap()["entry"])

	assert.Equal(t, zapcore.ErrorLevel, all[1].Level)
	assert.Equal(t, "panic in job", all[1].ContextMap()["error"])
	assert.Equal(t, "stack", all[1].ContextMap()["!BADKEY"])

	assert.NotContains(t, all[2].ContextMap(), "error")
}

func TestKeyValuesToFields(t *testing.T) {
	assert.Empty(t, KeyValuesToFields(nil))
	assert.Equal(t, map[string]interface{}{"a": 1, "2": "b"}, KeyValuesToFields([]interface{}{"a", 1, 2, "b"}))
}
