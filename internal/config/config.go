package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// NonFinitePolicy selects how NaN and infinite floats are written, since JSON
// has no literal for them.
type NonFinitePolicy string

const (
	// NonFiniteNull writes null.
	NonFiniteNull NonFinitePolicy = "null"
	// NonFiniteString writes "NaN", "Infinity" or "-Infinity".
	NonFiniteString NonFinitePolicy = "string"
	// NonFiniteError fails the conversion.
	NonFiniteError NonFinitePolicy = "error"
)

// DefaultMaxDepth bounds how deeply arrays and maps may nest.
const DefaultMaxDepth = 1024

// Config represents the complete configuration for mp2json
type Config struct {
	Output OutputConfig `yaml:"output"`
	Floats FloatsConfig `yaml:"floats"`
	Decode DecodeConfig `yaml:"decode"`
	Dev    DevConfig    `yaml:"dev"`
}

// OutputConfig controls how converted values are written
type OutputConfig struct {
	Pretty     bool `yaml:"pretty"`
	Unbuffered bool `yaml:"unbuffered"`
}

// FloatsConfig controls float conversion
type FloatsConfig struct {
	NonFinite NonFinitePolicy `yaml:"non_finite"`
}

// DecodeConfig controls msgpack decoding limits
type DecodeConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Pretty:     false,
			Unbuffered: false,
		},
		Floats: FloatsConfig{
			NonFinite: NonFiniteNull,
		},
		Decode: DecodeConfig{
			MaxDepth: DefaultMaxDepth,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that enumerated and numeric settings are in range
func (c *Config) Validate() error {
	switch c.Floats.NonFinite {
	case NonFiniteNull, NonFiniteString, NonFiniteError:
	default:
		return fmt.Errorf("invalid floats.non_finite %q: must be one of null, string, error", c.Floats.NonFinite)
	}
	if c.Decode.MaxDepth <= 0 {
		return fmt.Errorf("invalid decode.max_depth %d: must be positive", c.Decode.MaxDepth)
	}
	return nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".mp2json.yml", ".mp2json.yaml", "mp2json.yml", "mp2json.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// LoadConfigWithCLI loads config with CLI argument precedence.
// Boolean flags can only switch a setting on: a flag left at false keeps the
// value from the file.
func LoadConfigWithCLI(configPath string, cliPretty, cliUnbuffered, cliDebug bool) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cliPretty {
		cfg.Output.Pretty = true
	}
	if cliUnbuffered {
		cfg.Output.Unbuffered = true
	}
	if cliDebug {
		cfg.Dev.Debug = true
	}

	return cfg, nil
}
