package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Level(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter(&buf, "WARN", false))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestInit_VerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter(&buf, "error", true))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestInit_BadLevel(t *testing.T) {
	assert.Error(t, InitWithWriter(&bytes.Buffer{}, "loud", false))
}
