// Package config loads the server settings from flags, environment and an
// optional TOML file.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ironsheep/color-picker-mcp/internal/dominant"
	"github.com/ironsheep/color-picker-mcp/internal/imaging"
)

// AppName names the config file, env prefix and log source.
const AppName = "color-picker-mcp"

// Keys understood by Load.
const (
	KeyPalette        = "palette"
	KeyLogLevel       = "log-level"
	KeyLogDst         = "log-dst"
	KeyClusters       = "clusters"
	KeyMaxDimension   = "max-dimension"
	KeyAttempts       = "attempts"
	KeyMaxIterations  = "max-iterations"
	KeyEpsilon        = "epsilon"
	KeyViewportWidth  = "viewport-width"
	KeyViewportHeight = "viewport-height"
)

// Config is the validated server configuration.
type Config struct {
	Palette        string  `mapstructure:"palette"`         // CSV reference table; empty uses the embedded one
	LogLevel       string  `mapstructure:"log-level"`       // zerolog level name
	LogDst         string  `mapstructure:"log-dst"`         // "stderr" or a file path
	Clusters       int     `mapstructure:"clusters"`        // default k for dominant colors
	MaxDimension   int     `mapstructure:"max-dimension"`   // downsample bound before clustering
	Attempts       int     `mapstructure:"attempts"`        // k-means restarts
	MaxIterations  int     `mapstructure:"max-iterations"`  // k-means rounds per attempt
	Epsilon        float64 `mapstructure:"epsilon"`         // k-means centroid shift threshold
	ViewportWidth  int     `mapstructure:"viewport-width"`  // default pan window width
	ViewportHeight int     `mapstructure:"viewport-height"` // default pan window height
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:       "info",
		LogDst:         "stderr",
		Clusters:       5,
		MaxDimension:   200,
		Attempts:       dominant.DefaultAttempts,
		MaxIterations:  dominant.DefaultMaxIterations,
		Epsilon:        dominant.DefaultEpsilon,
		ViewportWidth:  imaging.DefaultViewportWidth,
		ViewportHeight: imaging.DefaultViewportHeight,
	}
}

// DefaultConfigPath is $HOME/.color-picker-mcp, resolved by viper as a TOML file.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, "."+AppName)
}

// BindFlags registers one flag per key on fs and binds them into v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	d := Default()
	fs.String(KeyPalette, d.Palette, "CSV reference table (label,name,hex,R,G,B); empty uses the built-in table")
	fs.String(KeyLogLevel, d.LogLevel, "set logging level: trace, debug, info, warn, error")
	fs.String(KeyLogDst, d.LogDst, "write logs to stderr or provide a pathname")
	fs.Int(KeyClusters, d.Clusters, "default number of dominant colors")
	fs.Int(KeyMaxDimension, d.MaxDimension, "downsample images to this size before clustering (0 disables)")
	fs.Int(KeyAttempts, d.Attempts, "k-means attempts, best one is kept")
	fs.Int(KeyMaxIterations, d.MaxIterations, "k-means iterations per attempt")
	fs.Float64(KeyEpsilon, d.Epsilon, "k-means stops when no centroid moves farther than this")
	fs.Int(KeyViewportWidth, d.ViewportWidth, "default viewport width in pixels")
	fs.Int(KeyViewportHeight, d.ViewportHeight, "default viewport height in pixels")

	for _, key := range []string{
		KeyPalette, KeyLogLevel, KeyLogDst, KeyClusters, KeyMaxDimension,
		KeyAttempts, KeyMaxIterations, KeyEpsilon, KeyViewportWidth, KeyViewportHeight,
	} {
		if err := v.BindPFlag(key, fs.Lookup(key)); err != nil {
			return errors.Wrapf(err, "bind flag %s", key)
		}
	}
	return nil
}

// NewViper returns a viper instance with defaults and environment lookup
// (COLOR_PICKER_MCP_MAX_DIMENSION and so on) configured.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault(KeyPalette, d.Palette)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogDst, d.LogDst)
	v.SetDefault(KeyClusters, d.Clusters)
	v.SetDefault(KeyMaxDimension, d.MaxDimension)
	v.SetDefault(KeyAttempts, d.Attempts)
	v.SetDefault(KeyMaxIterations, d.MaxIterations)
	v.SetDefault(KeyEpsilon, d.Epsilon)
	v.SetDefault(KeyViewportWidth, d.ViewportWidth)
	v.SetDefault(KeyViewportHeight, d.ViewportHeight)

	v.SetEnvPrefix(strings.ReplaceAll(AppName, "-", "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile points v at configPath (extension-less, TOML) and reads it.
// A missing file is an error only when required is set; found reports
// whether one was read.
func ReadFile(v *viper.Viper, configPath string, required bool) (found bool, err error) {
	v.SetConfigName(filepath.Base(configPath))
	v.SetConfigType("toml")
	v.AddConfigPath(filepath.Dir(configPath))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if required {
				return false, errors.Errorf("config file %s not found", configPath)
			}
			return false, nil
		}
		return false, errors.Wrap(err, "unable to read config file")
	}
	return true, nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Clusters < 1:
		return errors.Errorf("%s must be at least 1, got %d", KeyClusters, c.Clusters)
	case c.MaxDimension < 0:
		return errors.Errorf("%s must not be negative, got %d", KeyMaxDimension, c.MaxDimension)
	case c.Attempts < 1:
		return errors.Errorf("%s must be at least 1, got %d", KeyAttempts, c.Attempts)
	case c.MaxIterations < 1:
		return errors.Errorf("%s must be at least 1, got %d", KeyMaxIterations, c.MaxIterations)
	case c.Epsilon < 0:
		return errors.Errorf("%s must not be negative, got %g", KeyEpsilon, c.Epsilon)
	case c.ViewportWidth < 1 || c.ViewportHeight < 1:
		return errors.Errorf("viewport must be at least 1x1, got %dx%d", c.ViewportWidth, c.ViewportHeight)
	}
	return nil
}

// Extractor builds a dominant-color extractor from the k-means settings.
func (c Config) Extractor() *dominant.Extractor {
	return &dominant.Extractor{
		MaxIterations: c.MaxIterations,
		Epsilon:       c.Epsilon,
		Attempts:      c.Attempts,
	}
}
