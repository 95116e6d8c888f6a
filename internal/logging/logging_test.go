package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/luckyboost/internal/config"
)

func TestNewWithWriterLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	logger := NewWithWriter(config.LogConfig{Level: "WARN"}, &buf)

	logger.Info().Msg("hidden")
	require.Zero(t, buf.Len())

	logger.Warn().Str("pack", "pokemon-starter").Msg("shown")
	require.Contains(t, buf.String(), `"pack":"pokemon-starter"`)
}

func TestNewWithWriterBadLevelFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	logger := NewWithWriter(config.LogConfig{Level: "loud"}, &buf)

	logger.Debug().Msg("hidden")
	require.Zero(t, buf.Len())
	logger.Info().Msg("shown")
	require.Contains(t, buf.String(), "shown")
}
