package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToInfo(t *testing.T) {
	result := New(Config{})
	defer result.Close()

	assert.Equal(t, zerolog.InfoLevel, result.Logger.GetLevel())
	assert.False(t, result.UsingFile)
}

func TestNewParsesLevel(t *testing.T) {
	result := New(Config{Level: "debug"})
	defer result.Close()
	assert.Equal(t, zerolog.DebugLevel, result.Logger.GetLevel())

	fallback := New(Config{Level: "shouting"})
	defer fallback.Close()
	assert.Equal(t, zerolog.InfoLevel, fallback.Logger.GetLevel())
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chemsafe.log")

	result := New(Config{Level: "info", File: path})
	require.True(t, result.UsingFile)
	assert.Equal(t, path, result.FilePath)

	result.Logger.Info().Str("key", "value").Msg("hello")
	require.NoError(t, result.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"key":"value"`)
	assert.Contains(t, string(data), "hello")
}

func TestNewFallsBackWhenFileUnwritable(t *testing.T) {
	result := New(Config{File: filepath.Join(t.TempDir(), "no", "such", "dir", "x.log")})
	defer result.Close()

	assert.False(t, result.UsingFile)
}

func TestComponentLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	result := New(Config{File: path})

	logger := ComponentLogger(result.Logger, "scraper")
	logger.Info().Msg("tagged")
	require.NoError(t, result.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"scraper"`)
}

func TestFromContext(t *testing.T) {
	result := New(Config{})
	defer result.Close()

	ctx := result.Logger.WithContext(context.Background())
	got := FromContext(ctx)
	assert.Equal(t, result.Logger.GetLevel(), got.GetLevel())

	// No logger attached: a disabled logger, never a panic.
	assert.NotPanics(t, func() {
		dropped := FromContext(context.Background())
		dropped.Info().Msg("dropped")
	})
}

func TestNewTraceID(t *testing.T) {
	a := NewTraceID()
	b := NewTraceID()

	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}
