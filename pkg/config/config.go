// Package config loads kleviz settings from a TOML file.
//
// Every field has a default, so an empty or missing file yields
// [Default]. A file only needs the keys it overrides:
//
//	[layout]
//	padding = 0.25
//
//	[output]
//	pixel_width = 800
//	formats = ["svg", "png"]
//
//	[serve]
//	addr = ":9090"
//	redis_addr = "localhost:6379"
package config

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/kleviz/pkg/errors"
	"github.com/matzehuels/kleviz/pkg/render/keycap"
)

const (
	// AppName names the configuration and cache directories.
	AppName = "kleviz"

	// FileName is the configuration file looked up under the user config dir.
	FileName = "config.toml"
)

// Config is the complete set of tunables.
type Config struct {
	Layout Layout       `toml:"layout" json:"layout"`
	Keycap keycap.Style `toml:"keycap" json:"keycap"`
	Colors Colors       `toml:"colors" json:"colors"`
	Output Output       `toml:"output" json:"output"`
	Serve  Serve        `toml:"serve" json:"serve"`
	Cache  Cache        `toml:"cache" json:"cache"`
}

// Layout controls normalization.
type Layout struct {
	Padding float64 `toml:"padding" json:"padding"`
}

// Colors overrides layout colors.
type Colors struct {
	// Background replaces the layout's backcolor. "none" disables it; empty
	// keeps whatever the layout says.
	Background string `toml:"background" json:"background"`
}

// Output controls rendering.
type Output struct {
	PixelWidth int      `toml:"pixel_width" json:"pixel_width"`
	Formats    []string `toml:"formats" json:"formats"`
	Pivots     bool     `toml:"pivots" json:"pivots"`
	EmbedFont  bool     `toml:"embed_font" json:"embed_font"`
	OutDir     string   `toml:"out_dir" json:"out_dir"`
}

// Serve configures the HTTP render service.
type Serve struct {
	Addr         string        `toml:"addr" json:"addr"`
	MaxBodyBytes int64         `toml:"max_body_bytes" json:"max_body_bytes"`
	RedisAddr    string        `toml:"redis_addr" json:"redis_addr"`
	CacheTTL     time.Duration `toml:"cache_ttl" json:"cache_ttl"`
}

// Cache configures the local artifact cache.
type Cache struct {
	Disabled bool          `toml:"disabled" json:"disabled"`
	Dir      string        `toml:"dir" json:"dir"`
	TTL      time.Duration `toml:"ttl" json:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: Layout{Padding: 0.1},
		Keycap: keycap.DefaultStyle(),
		Output: Output{
			PixelWidth: 1200,
			Formats:    []string{"svg"},
		},
		Serve: Serve{
			Addr:         ":8080",
			MaxBodyBytes: int64(errors.MaxLayoutBytes),
			CacheTTL:     24 * time.Hour,
		},
		Cache: Cache{TTL: 7 * 24 * time.Hour},
	}
}

// Load reads path on top of [Default]. Unknown keys are rejected so typos
// do not pass silently.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open config")
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Decode parses TOML from r on top of [Default] and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDefault loads the file at [DefaultPath] when it exists and returns
// [Default] otherwise.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return Default(), nil
	}
	return Load(path)
}

// DefaultPath returns $XDG_CONFIG_HOME/kleviz/config.toml, falling back to
// the platform user config directory.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, FileName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, FileName), nil
}

// DefaultCacheDir returns the directory used when cache.dir is empty:
// $XDG_CACHE_HOME/kleviz, or ~/.cache/kleviz.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

var validFormats = map[string]bool{"svg": true, "png": true, "json": true, "html": true}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	p := c.Layout.Padding
	if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.padding must be a finite, non-negative number")
	}
	if err := c.Keycap.Validate(); err != nil {
		return err
	}
	if c.Output.PixelWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "output.pixel_width must be positive")
	}
	for _, f := range c.Output.Formats {
		if !validFormats[f] {
			return errors.New(errors.ErrCodeInvalidConfig, "output.formats: unknown format %q", f)
		}
	}
	if c.Serve.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "serve.max_body_bytes must be positive")
	}
	if c.Serve.CacheTTL < 0 || c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// String returns the TOML form of c.
func (c Config) String() string {
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return ""
	}
	return buf.String()
}
