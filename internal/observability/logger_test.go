// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperscout/pkg/types"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewLoggerToJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, types.LoggingConfig{Level: "warn", Format: "json"})

	log.Info().Msg("dropped")
	log.Warn().Str("source", "Crossref").Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "Crossref", entry["source"])
	assert.Equal(t, "warn", entry["level"])
}

func TestNewLoggerToConsole(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, types.LoggingConfig{Level: "debug", Format: "console"})
	log.Debug().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestZeroLoggerIsSilent(t *testing.T) {
	var log zerolog.Logger
	assert.NotPanics(t, func() { log.Warn().Msg("nowhere") })
}
