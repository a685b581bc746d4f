package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONStampsServiceFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Service: "veritas-lab", Version: "1.2.3", Output: &buf})

	log.WithComponent("image").WithAnalysisID("a-1").WithUserID("u-1").Info().Msg("hello")
	log.Debug().Msg("dropped")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "veritas-lab", line["service"])
	assert.Equal(t, "1.2.3", line["version"])
	assert.Equal(t, "image", line["component"])
	assert.Equal(t, "a-1", line["analysis_id"])
	assert.Equal(t, "u-1", line["user_id"])
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"WARN":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		" error ": zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"loud":    zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestFromConfigProductionDefaults(t *testing.T) {
	var buf bytes.Buffer
	log := FromConfig("production", Config{Output: &buf})
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())

	log.Info().Msg("json")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))

	dev := FromConfig("development", Config{Output: &buf})
	assert.Equal(t, zerolog.DebugLevel, dev.GetLevel())
}
