package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLogger_JSON(t *testing.T) {
	t.Setenv("APP_ENV", "")
	var buf bytes.Buffer
	l := NewZerologLogger("planner", &buf)

	l.Infof("simulated %d hours", 24)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "planner", entry["component"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "simulated 24 hours", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestZerologLogger_Debugw(t *testing.T) {
	t.Setenv("APP_ENV", "")
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	var buf bytes.Buffer
	NewZerologLogger("optimizer", &buf).Debugw("move", map[string]any{"to_hour": 13})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, float64(13), entry["to_hour"])
}

func TestZerologLogger_DevConsole(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	var buf bytes.Buffer
	l := NewZerologLogger("test", &buf)
	l.Warnf("warn")
	l.Errorf("error")

	assert.Contains(t, buf.String(), "warn")
	assert.Contains(t, buf.String(), "error")
	assert.NotContains(t, buf.String(), `"level"`)
}

func TestSetLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)

	require.NoError(t, SetLevel("warn"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	var buf bytes.Buffer
	NewZerologLogger("test", &buf).Infof("hidden")
	assert.Empty(t, buf.String())

	require.NoError(t, SetLevel(""))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	assert.Error(t, SetLevel("loud"))
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debugf("x")
	l.Debugw("x", nil)
	l.Infof("x")
	l.Warnf("x")
	l.Errorf("x")
}
