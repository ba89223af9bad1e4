package kura

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kura.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
initial_capacity = 4096
chunk_pool_size = 2
log_level = "debug"
`)
	t.Setenv("KURA_CHUNK_POOL_SIZE", "8")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4096, cfg.InitialCapacity)
	assert.Equal(t, 8, cfg.ChunkPoolSize, "environment wins over the file")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Empty(t, cfg.StatsdAddress)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "initial_capacity = ["))
	assert.Error(t, err)
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkPoolSize = 3
	opts, err := cfg.Options(zerolog.Nop())
	require.NoError(t, err)

	w := NewWorld(opts...)
	assert.Equal(t, 3, w.Stats().Chunks.Free)

	cfg.LogLevel = "loud"
	_, err = cfg.Options(zerolog.Nop())
	assert.Error(t, err)
}
