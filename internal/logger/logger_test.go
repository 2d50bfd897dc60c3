package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(&buf, "debug", "json"), "auth_service")

	log.Info().Str("user", "admin").Msg("login ok")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "auth_service", line["component"])
	assert.Equal(t, "admin", line["user"])
	assert.Equal(t, "login ok", line["message"])
	assert.Contains(t, line, "time")
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	_ = New(&buf, "verbose", "json")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
