package clog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(&Config{Level: "verbose"})
	assert.Error(t, err)

	_, err = New(&Config{Format: "xml"})
	assert.Error(t, err)
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&Config{Level: "debug", Format: "json"}, WithWriter(&buf))
	require.NoError(t, err)

	logger.Info("tenant routed", Int64("tenant_id", 5001), String("shard_id", "s1"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "tenant routed", entry["msg"])
	assert.Equal(t, float64(5001), entry["tenant_id"])
	assert.Equal(t, "s1", entry["shard_id"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&Config{Level: "warn", Format: "json"}, WithWriter(&buf))
	require.NoError(t, err)

	logger.Debug("dropped")
	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestLogger_Namespace(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&Config{Level: "info", Format: "json"}, WithWriter(&buf), WithNamespace("shardkit"))
	require.NoError(t, err)

	child := logger.WithNamespace("router")
	child.Info("routed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shardkit.router", entry["namespace"])
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&Config{Level: "info", Format: "json"}, WithWriter(&buf))
	require.NoError(t, err)

	scoped := logger.With(String("shard_id", "s2"))
	scoped.Info("first")
	scoped.Info("second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Contains(t, line, `"shard_id":"s2"`)
	}
}

func TestNoop(t *testing.T) {
	logger := NewNoop()
	// 不输出也不 panic
	logger.Info("ignored", String("k", "v"))
	logger.With(String("k", "v")).WithNamespace("ns").Error("ignored")
}
