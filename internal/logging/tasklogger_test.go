package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestTaskLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		log   func(l *TaskLogger)
		want  string
	}{
		{"debug", func(l *TaskLogger) { l.Debug("running task", "task", "classify", "runs", 3) }, "debug"},
		{"debug", func(l *TaskLogger) { l.Info("running task", "task", "classify", "runs", 3) }, "info"},
		{"debug", func(l *TaskLogger) { l.Error("running task", "task", "classify", "runs", 3) }, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewTaskLogger(NewZerolog(&buf, tt.level, "scheduler"))
			tt.log(l)

			entry := decode(t, &buf)
			assert.Equal(t, tt.want, entry["level"])
			assert.Equal(t, "running task", entry["message"])
			assert.Equal(t, "classify", entry["task"])
			assert.Equal(t, float64(3), entry["runs"])
			assert.Equal(t, "scheduler", entry["component"])
			assert.Contains(t, entry, "time")
		})
	}
}

func TestTaskLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewTaskLogger(NewZerolog(&buf, "error", "scheduler"))
	l.Debug("hidden")
	l.Info("hidden")
	assert.Zero(t, buf.Len())

	l.Error("shown")
	assert.Equal(t, "shown", decode(t, &buf)["message"])
}

func TestNewZerolog_UnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewTaskLogger(NewZerolog(&buf, "chatty", "x"))
	l.Debug("hidden")
	assert.Zero(t, buf.Len())
	l.Info("shown")
	assert.NotZero(t, buf.Len())
}

func TestToFields(t *testing.T) {
	tests := []struct {
		name string
		in   []any
		want map[string]any
	}{
		{"empty", nil, map[string]any{}},
		{"pairs", []any{"a", 1, "b", "x"}, map[string]any{"a": 1, "b": "x"}},
		{"odd trailing key", []any{"a", 1, "dangling"}, map[string]any{"a": 1}},
		{"non-string key", []any{7, "v", "k", true}, map[string]any{"k": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toFields(tt.in))
		})
	}
}
