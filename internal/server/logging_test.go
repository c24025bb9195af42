package server

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/tj/assert"
)

func TestNewLoggerConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, LogFormatConsole, "info", "v1")
	assert.NoError(t, err)

	sessionLogger := logger.With().Str(remoteField, "127.0.0.1:5000").Logger()
	sessionLogger.Info().Msg("New client connected")
	sessionLogger.Info().Msgf("Received message: %s", "hi")
	sessionLogger.Info().Int(codeField, 1000).Msg("Client disconnected")
	sessionLogger.Debug().Msg("hidden at info level")

	assert.Equal(t, "New client connected\nReceived message: hi\nClient disconnected\n", buf.String())
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, LogFormatJSON, "debug", "v1")
	assert.NoError(t, err)

	logger.Info().Str(remoteField, "127.0.0.1:5000").Msg("New client connected")

	var line map[string]interface{}
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "New client connected", line["message"])
	assert.Equal(t, "127.0.0.1:5000", line[remoteField])
	assert.Equal(t, "echoserver", line["service"])
	assert.Equal(t, "v1", line["version"])
	assert.Equal(t, "info", line["level"])
}

func TestNewLoggerRejectsBadSettings(t *testing.T) {
	var buf bytes.Buffer

	_, err := NewLogger(&buf, LogFormatConsole, "loud", "v1")
	assert.Error(t, err)

	_, err = NewLogger(&buf, "xml", "info", "v1")
	assert.Error(t, err)
}
