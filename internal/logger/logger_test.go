package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug")
	log.Info().Str("sprint_id", "abc").Msg("sprint created")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "sprint created", line["message"])
	assert.Equal(t, "abc", line["sprint_id"])
	assert.Equal(t, "techno-hub", line["service"])
}

func TestNewWithWriter_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "chatty")
	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
	log.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}
