package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dbccheck/internal/api"
	"github.com/matzehuels/dbccheck/pkg/cache"
	"github.com/matzehuels/dbccheck/pkg/errors"
	"github.com/matzehuels/dbccheck/pkg/pipeline"
	"github.com/matzehuels/dbccheck/pkg/store"
)

// Cache backends.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the contents of config.toml. Flags override file values.
type Config struct {
	Check   CheckConfig   `toml:"check"`
	Cache   CacheConfig   `toml:"cache"`
	History HistoryConfig `toml:"history"`
	Serve   ServeConfig   `toml:"serve"`
}

// CheckConfig holds precheck defaults.
type CheckConfig struct {
	Extreme float64 `toml:"extreme"`
}

// CacheConfig selects and configures the report cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	TTL       duration `toml:"ttl"`
	Namespace string   `toml:"namespace"`
}

// HistoryConfig points at the MongoDB history collection. History is
// disabled when MongoURI is empty.
type HistoryConfig struct {
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServeConfig configures the HTTP service.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// duration decodes TOML strings like "24h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() *Config {
	return &Config{
		Check: CheckConfig{Extreme: pipeline.DefaultExtreme},
		Cache: CacheConfig{
			Backend: backendFile,
			TTL:     duration{cache.TTLReport},
		},
		History: HistoryConfig{
			Database:   store.DefaultDatabase,
			Collection: store.DefaultCollection,
		},
		Serve: ServeConfig{Addr: api.DefaultAddr},
	}
}

// loadConfig reads path on top of the defaults. A missing file is not an
// error unless the path was given explicitly.
func loadConfig(path string, explicit bool) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", path)
		}
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case backendFile, backendNone:
	case backendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend redis needs cache.redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	return errors.ValidateExtreme(c.Check.Extreme)
}

// configPath returns the default config file location
// ($XDG_CONFIG_HOME/dbccheck/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
