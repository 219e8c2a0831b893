// Package config loads blockgen settings from a TOML file, environment
// variables and defaults, in that order of precedence (environment wins).
//
// The file is named blockgen.toml and is searched for in the working
// directory and in $XDG_CONFIG_HOME/blockgen. Every key can be overridden by
// an environment variable with the BLOCKGEN_ prefix and dots replaced by
// underscores, e.g. BLOCKGEN_CACHE_BACKEND=redis.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	blockerrors "github.com/matzehuels/blockgen/pkg/errors"
)

const (
	appName   = "blockgen"
	envPrefix = "BLOCKGEN"
)

// Config holds all settings shared by the CLI and the server.
type Config struct {
	// Vocabulary is an optional TOML or YAML file with extra keywords.
	Vocabulary string `mapstructure:"vocabulary" validate:"omitempty,max=500"`

	// Formats are exported when a command does not name any.
	Formats []string `mapstructure:"formats" validate:"min=1,dive,oneof=json svg drawio dot png"`

	// OutputDir receives exported files.
	OutputDir string `mapstructure:"output_dir" validate:"required,max=500"`

	Cache  CacheConfig  `mapstructure:"cache"`
	Server ServerConfig `mapstructure:"server"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend   string        `mapstructure:"backend" validate:"oneof=file redis none"`
	Dir       string        `mapstructure:"dir" validate:"required_if=Backend file"`
	RedisAddr string        `mapstructure:"redis_addr" validate:"required_if=Backend redis,omitempty,hostname_port"`
	Namespace string        `mapstructure:"namespace" validate:"max=64"`
	TTL       time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr" validate:"required"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
}

var validate = validator.New()

// setDefaults registers the default of every key. Keys must be known to
// viper for environment overrides to reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("vocabulary", "")
	v.SetDefault("formats", []string{"json", "svg", "drawio"})
	v.SetDefault("output_dir", ".")
	v.SetDefault("cache.backend", "file")
	v.SetDefault("cache.dir", CacheDir())
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.namespace", "")
	v.SetDefault("cache.ttl", 7*24*time.Hour)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the configuration. If path is empty the standard locations are
// searched and a missing file is not an error. It returns the file used, if any.
func Load(path string) (Config, string, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (Config, string, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath(ConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		switch {
		case missing && path == "":
		case missing:
			return Config{}, "", blockerrors.New(blockerrors.ErrCodeFileNotFound, "config file %s not found", path)
		default:
			return Config{}, "", blockerrors.Wrap(blockerrors.ErrCodeInvalidConfig, err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", blockerrors.Wrap(blockerrors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", err
	}
	return cfg, v.ConfigFileUsed(), nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError reports the first failed constraint in a readable form.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return blockerrors.Wrap(blockerrors.ErrCodeInvalidConfig, err, "invalid config")
	}

	e := verrs[0]
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "required", "required_if":
		return blockerrors.New(blockerrors.ErrCodeInvalidConfig, "%s: field is required", field)
	case "oneof":
		return blockerrors.New(blockerrors.ErrCodeInvalidConfig, "%s: must be one of %s, got %v", field, e.Param(), e.Value())
	case "min", "gt", "gte":
		return blockerrors.New(blockerrors.ErrCodeInvalidConfig, "%s: must be at least %s", field, e.Param())
	case "max":
		return blockerrors.New(blockerrors.ErrCodeInvalidConfig, "%s: must not exceed %s", field, e.Param())
	default:
		return blockerrors.New(blockerrors.ErrCodeInvalidConfig, "%s: validation failed (%s)", field, e.Tag())
	}
}

// =============================================================================
// Paths
// =============================================================================

// CacheDir returns the default cache directory (~/.cache/blockgen/), honoring
// XDG_CACHE_HOME.
func CacheDir() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// ConfigDir returns the directory searched for blockgen.toml
// (~/.config/blockgen/), honoring XDG_CONFIG_HOME.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func xdgDir(env, fallback string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, fallback, appName)
}
