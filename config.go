package kura

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config holds the tunables of a World that are worth setting from a file
// or the environment.
type Config struct {
	InitialCapacity int      `toml:"initial_capacity" config:"KURA_INITIAL_CAPACITY"`
	ChunkPoolSize   int      `toml:"chunk_pool_size" config:"KURA_CHUNK_POOL_SIZE"`
	LogLevel        string   `toml:"log_level" config:"KURA_LOG_LEVEL"`
	StatsdAddress   string   `toml:"statsd_address" config:"KURA_STATSD_ADDRESS"`
	StatsdTags      []string `toml:"statsd_tags" config:"KURA_STATSD_TAGS"`
}

// DefaultConfig returns the configuration NewWorld uses without options.
func DefaultConfig() Config {
	return Config{
		InitialCapacity: 1024,
		LogLevel:        "info",
	}
}

// LoadConfig reads a TOML file at path over the defaults, then applies
// KURA_* environment overrides. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, eris.Wrapf(err, "read config %s", path)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, eris.Wrapf(err, "parse config %s", path)
		}
	}
	if err := config.FromEnv().To(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "apply environment overrides")
	}
	return cfg, nil
}

// Options turns the configuration into world options. base is the logger
// the level is applied to.
func (c Config) Options(base zerolog.Logger) ([]Option, error) {
	level := zerolog.InfoLevel
	if c.LogLevel != "" {
		l, err := zerolog.ParseLevel(c.LogLevel)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid log level %q", c.LogLevel)
		}
		level = l
	}
	opts := []Option{
		WithLogger(base.Level(level)),
		WithInitialCapacity(c.InitialCapacity),
		WithChunkPool(c.ChunkPoolSize),
	}
	if c.StatsdAddress != "" {
		client, err := NewStatsdClient(c.StatsdAddress, c.StatsdTags)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithStatsd(client))
	}
	return opts, nil
}
