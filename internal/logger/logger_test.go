package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := newWithOutput("todo-api", "debug", &buf)

	log.WithField("request_id", "abc").Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "todo-api", entry["service"])
	assert.Equal(t, "abc", entry["request_id"])
	assert.Contains(t, entry, "ts")
}

func TestNewWithOutput_InvalidLevelFallsBackToInfo(t *testing.T) {
	log := newWithOutput("todo-api", "loud", &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, log.Logger.GetLevel())
}
