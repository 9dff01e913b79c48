// Package config loads diagramkit settings from a TOML file.
//
// Every field has a default, so a file only needs the values it changes:
//
//	[layout]
//	width = 600
//	show_labels = false
//
//	[steps]
//	auto_advance_delay = "3s"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
// Command-line flags take precedence over file values.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/diagramkit/pkg/errors"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config is the root of the configuration file.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Steps  StepsConfig  `toml:"steps"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
}

// LayoutConfig holds canvas and rendering defaults.
type LayoutConfig struct {
	Width       float64 `toml:"width"`
	Height      float64 `toml:"height"`
	ForceScale  float64 `toml:"force_scale"`
	FontSize    float64 `toml:"font_size"`
	ShowLabels  bool    `toml:"show_labels"`
	AutoCorrect bool    `toml:"auto_correct"`
}

// StepsConfig holds step playback defaults.
type StepsConfig struct {
	Loop              bool     `toml:"loop"`
	AutoAdvanceDelay  Duration `toml:"auto_advance_delay"`
	AnimationDuration Duration `toml:"animation_duration"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	SessionTTL      Duration `toml:"session_ttl"`
	MaxBodyBytes    int64    `toml:"max_body_bytes"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
}

// StoreConfig selects where saved diagrams live.
type StoreConfig struct {
	Backend    string `toml:"backend"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Duration is a time.Duration written as a Go duration string ("1.5s").
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
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			Width:      400,
			Height:     400,
			ForceScale: 1.5,
			FontSize:   14,
			ShowLabels: true,
		},
		Steps: StepsConfig{
			AutoAdvanceDelay:  Duration{2 * time.Second},
			AnimationDuration: Duration{400 * time.Millisecond},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration{15 * time.Second},
			WriteTimeout:    Duration{30 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
			SessionTTL:      Duration{time.Hour},
			MaxBodyBytes:    1 << 20,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
		},
		Store: StoreConfig{
			Backend:    StoreMemory,
			Database:   "diagramkit",
			Collection: "diagrams",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Unknown keys are rejected so that typos do not pass silently.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and backend names.
func (c *Config) Validate() error {
	if c.Layout.Width <= 0 || c.Layout.Height <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "layout: width and height must be positive")
	}
	if c.Layout.ForceScale <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "layout: force_scale must be positive")
	}
	if c.Layout.FontSize <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "layout: font_size must be positive")
	}
	if c.Steps.AutoAdvanceDelay.Duration < 0 || c.Steps.AnimationDuration.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "steps: durations cannot be negative")
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errs.New(errs.ErrCodeInvalidInput, "cache: redis backend needs redis_addr")
		}
	default:
		return errs.New(errs.ErrCodeInvalidInput, "cache: unknown backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case StoreMemory:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return errs.New(errs.ErrCodeInvalidInput, "store: mongo backend needs mongo_uri")
		}
	default:
		return errs.New(errs.ErrCodeInvalidInput, "store: unknown backend %q", c.Store.Backend)
	}
	return nil
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
