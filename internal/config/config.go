package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables read into the config.
// KNOLDECK_DB_PATH maps to db.path.
const EnvPrefix = "KNOLDECK_"

// Config holds all runtime settings.
type Config struct {
	DB struct {
		Path string `koanf:"path" validate:"required"`
	} `koanf:"db"`

	HTTP struct {
		Addr       string        `koanf:"addr" validate:"required,hostname_port"`
		Origins    []string      `koanf:"origins" validate:"dive,url"`
		SessionTTL time.Duration `koanf:"session_ttl" validate:"gt=0"`
	} `koanf:"http"`

	Log struct {
		Level string `koanf:"level" validate:"oneof=debug info warn error"`
	} `koanf:"log"`

	Sampler struct {
		Seed int64 `koanf:"seed"` // 0 picks a time-based seed
	} `koanf:"sampler"`

	Weight struct {
		Decay float64 `koanf:"decay" validate:"gt=0,lt=1"`
		Boost float64 `koanf:"boost" validate:"gt=1"`
	} `koanf:"weight"`

	Repos struct {
		Dir string `koanf:"dir" validate:"required"`
	} `koanf:"repos"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	var c Config
	c.DB.Path = "knoldeck.db"
	c.HTTP.Addr = "localhost:8080"
	c.HTTP.Origins = []string{"http://localhost:3000"}
	c.HTTP.SessionTTL = 30 * time.Minute
	c.Log.Level = "info"
	c.Weight.Decay = 0.7
	c.Weight.Boost = 1.3
	c.Repos.Dir = "repos"
	return c
}

// RegisterFlags adds the flags that override config keys. A flag named
// "db-path" overrides the key "db.path".
func RegisterFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.String("config", "", "Path to a YAML config file")
	flags.String("db-path", d.DB.Path, "Path to the SQLite database file")
	flags.String("log-level", d.Log.Level, "Log level: debug, info, warn or error")
	flags.Int64("sampler-seed", d.Sampler.Seed, "Seed for card selection (0 = random)")
	flags.String("repos-dir", d.Repos.Dir, "Directory git deck sources are cloned into")
}

// Load layers defaults, the YAML file at path (if any), environment
// variables and changed flags, in that order, and validates the result.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
			slog.Warn("Config file not found, using defaults", "path", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "."), posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// SlogLevel converts the configured level name.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Logger builds the process logger.
func (c *Config) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.SlogLevel()}))
}
