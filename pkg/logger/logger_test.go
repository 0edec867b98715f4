package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var out []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		out = append(out, e)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel(" debug "))
	assert.Equal(t, LevelInfo, ParseLevel("INFO"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelWarn, ParseLevel("loud"))
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf, Level: LevelInfo})

	log.Debug("hidden")
	log.Info("shown", Label("Added class CS2103T"))
	log.Error("failed", Err(errors.New("disk full")))

	got := entries(t, &buf)
	require.Len(t, got, 2)
	assert.Equal(t, "INFO", got[0].Level)
	assert.Equal(t, "Added class CS2103T", got[0].Fields["label"])
	assert.Equal(t, "disk full", got[1].Fields["error"])
}

func TestLogger_WithKeepsParentFields(t *testing.T) {
	var buf bytes.Buffer
	base := New(Options{Output: &buf, Level: LevelDebug}).With(Component("logic"))
	child := base.With(Command("undo"))

	child.Debug("child", ClassName("CS2100"))
	base.Debug("parent")

	got := entries(t, &buf)
	require.Len(t, got, 2)
	assert.Equal(t, "logic", got[0].Fields["component"])
	assert.Equal(t, "undo", got[0].Fields["command"])
	assert.Equal(t, "CS2100", got[0].Fields["class_name"])
	assert.NotContains(t, got[1].Fields, "command")
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf, Level: LevelDebug})

	FromContext(context.Background()).Error("dropped")
	assert.Empty(t, buf.String())

	FromContext(WithContext(context.Background(), log)).Debug("kept", StudentID("42"))
	got := entries(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "42", got[0].Fields["student_id"])
}
