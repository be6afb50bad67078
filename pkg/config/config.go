// Package config loads archgraph settings from a TOML file.
//
// Every field has a default from [Default]; a file only needs the keys it
// changes:
//
//	[layout]
//	horizontal_spacing = 320
//
//	[store]
//	backend = "redis"
//
//	[store.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
//	[session]
//	saved_display = "2s"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/layout"
	"github.com/matzehuels/archgraph/pkg/session"
	"github.com/matzehuels/archgraph/pkg/store"
)

// AppName names the config and cache directories.
const AppName = "archgraph"

// FileName is the config file looked up in the config directory.
const FileName = "archgraph.toml"

// Config is the full settings tree.
type Config struct {
	Layout  layout.Config `toml:"layout"`
	Store   store.Config  `toml:"store"`
	Server  Server        `toml:"server"`
	Cache   Cache         `toml:"cache"`
	Session Session       `toml:"session"`
}

// Server configures the HTTP editor API.
type Server struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Cache configures the export cache.
type Cache struct {
	Enabled bool     `toml:"enabled"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`
	// RedisPrefix, when set with the redis store backend, keeps the export
	// cache in Redis next to the graphs instead of on disk.
	RedisPrefix string `toml:"redis_prefix"`
}

// Session configures editor sessions.
type Session struct {
	SavedDisplay Duration `toml:"saved_display"`
}

// Duration is a time.Duration written as a string ("2s", "5m") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Layout: layout.DefaultConfig(),
		Store:  store.Config{Backend: store.BackendFile},
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     Duration{15 * time.Second},
			WriteTimeout:    Duration{60 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Cache: Cache{
			Enabled: true,
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Session: Session{
			SavedDisplay: Duration{session.DefaultSavedDisplay},
		},
	}
}

// Load reads path over the defaults. An empty path loads [DefaultPath] if it
// exists and returns the defaults otherwise.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if os.IsNotExist(err) {
		return cfg, apperrors.New(apperrors.ErrCodeFileNotFound, "config file not found: %s", path)
	}
	if err != nil {
		return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, cfg.Validate()
}

// Validate checks values that decode cleanly but cannot work.
func (c Config) Validate() error {
	if c.Layout.HorizontalSpacing <= 0 || c.Layout.VerticalSpacing <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "layout spacing must be positive")
	}
	switch c.Store.Backend {
	case "", store.BackendMemory, store.BackendFile, store.BackendRedis, store.BackendMongo:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	if c.Session.SavedDisplay.Duration < 0 || c.Cache.TTL.Duration < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "durations must not be negative")
	}
	return nil
}

// Write encodes c as TOML to path, creating parent directories.
func Write(c Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "create config dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "create config %s", path)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "encode config")
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// Dir returns $XDG_CONFIG_HOME/archgraph, or ~/.config/archgraph.
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultPath returns the config file inside [Dir].
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// CacheDir returns $XDG_CACHE_HOME/archgraph, or ~/.cache/archgraph.
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
