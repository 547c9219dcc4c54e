package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	require.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	require.Equal(t, zerolog.Disabled, ParseLevel("none"))
	require.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
	require.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}

func TestComponentLogger(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	SetupWriter("info", &buf)
	logger := Component("sync")
	logger.Info().Str("season", "2015-16").Msg("job done")

	line := buf.String()
	require.Equal(t, "sync", gjson.Get(line, "component").String())
	require.Equal(t, "info", gjson.Get(line, "level").String())
	require.Equal(t, "job done", gjson.Get(line, "message").String())

	buf.Reset()
	logger = Component("sync")
	logger.Debug().Msg("hidden")
	require.Empty(t, buf.String())
	require.False(t, Enabled(zerolog.DebugLevel))
	require.True(t, Enabled(zerolog.ErrorLevel))
}
