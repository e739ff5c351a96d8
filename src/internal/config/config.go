// Package config resolves process-start settings: the config file, .env,
// environment overrides and the cache and data directories.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"kcci/src/internal/ingest"
	"kcci/src/internal/logging"
	"kcci/src/internal/render"
)

const (
	// AppDir is the directory name under the XDG config, cache and data homes.
	AppDir = "kcci"
	// FileName is the config file name.
	FileName = "config.yml"
)

// Environment variables consulted by Load.
const (
	EnvConfig   = "KCCI_CONFIG"
	EnvStrategy = "KCCI_STRATEGY"
	EnvFormat   = "KCCI_FORMAT"
	EnvCacheDir = "KCCI_CACHE_DIR"
	EnvDataDir  = "KCCI_DATA_DIR"
)

var (
	// ErrUnknownStrategy is returned by Validate for an unregistered strategy name.
	ErrUnknownStrategy = errors.New("unknown strategy")
	// ErrUnknownFormat is returned by Validate for an unsupported output format.
	ErrUnknownFormat = errors.New("unknown format")
)

// Config is the settings file ~/.config/kcci/config.yml plus overrides.
type Config struct {
	Strategy   string `yaml:"strategy,omitempty"`
	Format     string `yaml:"format,omitempty"`
	SplitLines bool   `yaml:"split_lines,omitempty"`
	LogLevel   string `yaml:"log_level,omitempty"`
	CacheDir   string `yaml:"cache_dir,omitempty"`
	DataDir    string `yaml:"data_dir,omitempty"`
}

// Path returns the config file location: $KCCI_CONFIG, else
// $XDG_CONFIG_HOME/kcci/config.yml, else ~/.config/kcci/config.yml.
func Path() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return ExpandTilde(p), nil
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving config dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppDir, FileName), nil
}

// Load reads .env, the config file and the environment, fills defaults
// and validates the result.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	path, err := Path()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.fillDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile parses one config file. A missing file yields an empty Config.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.CacheDir = ExpandTilde(cfg.CacheDir)
	cfg.DataDir = ExpandTilde(cfg.DataDir)
	return &cfg, nil
}

// loadDotEnv sets variables from path without overriding ones already set.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.LogLevel, logging.EnvVar)
	set(&c.Strategy, EnvStrategy)
	set(&c.Format, EnvFormat)
	set(&c.CacheDir, EnvCacheDir)
	set(&c.DataDir, EnvDataDir)
	c.CacheDir = ExpandTilde(c.CacheDir)
	c.DataDir = ExpandTilde(c.DataDir)
}

func (c *Config) fillDefaults() error {
	if c.Strategy == "" {
		c.Strategy = ingest.DefaultStrategy
	}
	if c.Format == "" {
		c.Format = string(render.TSV)
	}
	if c.LogLevel == "" {
		c.LogLevel = logging.DefaultLevel
	}
	if c.CacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("resolving cache dir: %w", err)
		}
		c.CacheDir = filepath.Join(base, AppDir)
	}
	if c.DataDir == "" {
		dir, err := DataHome()
		if err != nil {
			return err
		}
		c.DataDir = filepath.Join(dir, AppDir)
	}
	return nil
}

// DataHome returns $XDG_DATA_HOME, else ~/.local/share.
func DataHome() (string, error) {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving data dir: %w", err)
	}
	return filepath.Join(home, ".local", "share"), nil
}

// Validate rejects unknown strategy, format and log level names.
func (c *Config) Validate() error {
	if c.Strategy != "" {
		if _, ok := ingest.Lookup(c.Strategy); !ok {
			return fmt.Errorf("%w: %q (want one of %s)", ErrUnknownStrategy, c.Strategy, strings.Join(ingest.Names(), ", "))
		}
	}
	if c.Format != "" {
		if _, err := render.ParseFormat(c.Format); err != nil {
			return fmt.Errorf("%w: %w", ErrUnknownFormat, err)
		}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ExpandTilde replaces a leading ~ with the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the Config stored by NewContext, or nil.
func FromContext(ctx context.Context) *Config {
	if ctx == nil {
		return nil
	}
	cfg, _ := ctx.Value(ctxKey{}).(*Config)
	return cfg
}
