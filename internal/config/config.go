package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up next to the script being run.
const ConfigFileName = "petty.yaml"

// ConfigEnvVar overrides the config file location.
const ConfigEnvVar = "PETTY_CONFIG"

// DefaultMaxDepth bounds nested evaluation so runaway recursion in a
// script surfaces as a runtime error instead of a Go stack overflow.
const DefaultMaxDepth = 10000

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config holds interpreter settings read from petty.yaml.
type Config struct {
	LogLevel string    `yaml:"log_level"`
	MaxDepth int       `yaml:"max_depth"`
	Color    ColorMode `yaml:"color"`

	// MaxSteps stops a program after that many evaluation steps. 0 is unlimited.
	MaxSteps int `yaml:"max_steps"`

	// FSRoot confines std.fs to a directory. Empty means the working directory.
	FSRoot string `yaml:"fs_root"`
}

func Default() *Config {
	return &Config{
		LogLevel: "info",
		MaxDepth: DefaultMaxDepth,
		Color:    ColorAuto,
	}
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MaxDepth <= 0 {
		return fmt.Errorf("config: max_depth must be positive, got %d", c.MaxDepth)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("config: max_steps must not be negative, got %d", c.MaxSteps)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	case "":
		c.Color = ColorAuto
	default:
		return fmt.Errorf("config: unknown color mode %q", c.Color)
	}
	return nil
}

// Load reads the config for a script at scriptPath. $PETTY_CONFIG wins over
// petty.yaml in the script's directory; a missing file yields the defaults.
// The returned path is empty when no file was read.
func Load(scriptPath string) (*Config, string, error) {
	path := os.Getenv(ConfigEnvVar)
	if path == "" {
		dir := "."
		if scriptPath != "" {
			dir = filepath.Dir(scriptPath)
		}
		path = filepath.Join(dir, ConfigFileName)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}
