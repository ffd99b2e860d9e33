package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := Component(NewWithWriter(buf), "session")

	log.Info().Msg("restored")

	require.Contains(t, buf.String(), `"component":"session"`)
	require.Contains(t, buf.String(), "restored")
}

func TestContextRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Warn().Msg("from ctx")
	require.NotZero(t, buf.Len())

	require.NotEqual(t, zerolog.Disabled, FromContext(context.Background()).GetLevel())
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	log, closer, err := NewFile(path, "warn")
	require.NoError(t, err)

	log.Info().Msg("dropped")
	log.Error().Msg("kept")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "dropped")
	require.Contains(t, string(data), "kept")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	require.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
	require.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}
