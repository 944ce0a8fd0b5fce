// Package config loads the pcomb configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "PCOMB_CONFIG"

// Config holds settings that command line flags override.
type Config struct {
	// Format is the default output format of pcomb parse.
	Format string `yaml:"format"`
	// Color is one of auto, always or never.
	Color     string `yaml:"color"`
	Verbosity int    `yaml:"verbosity"`
	LogFile   string `yaml:"log_file,omitempty"`
	// Lint enables Go EBNF verification in pcomb check.
	Lint bool `yaml:"lint"`
	// Grammars maps short names to grammar files. Relative paths are
	// resolved against the directory of the config file.
	Grammars map[string]string `yaml:"grammars,omitempty"`

	dir string
}

var (
	formats = []string{"tree", "json", "sexpr", "symbols"}
	colors  = []string{"auto", "always", "never"}
)

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Format: "tree",
		Color:  "auto",
		Lint:   true,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !slices.Contains(formats, c.Format) {
		return fmt.Errorf("format %q is not one of %v", c.Format, formats)
	}
	if !slices.Contains(colors, c.Color) {
		return fmt.Errorf("color %q is not one of %v", c.Color, colors)
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity must not be negative, got %d", c.Verbosity)
	}
	for name, path := range c.Grammars {
		if path == "" {
			return fmt.Errorf("grammar %q has no path", name)
		}
	}
	return nil
}

// Load reads the config file at path. An empty path falls back to
// $PCOMB_CONFIG; when that is unset too, the defaults are returned. Values
// missing from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Grammar resolves name through the grammars table. Names not in the table
// are returned unchanged.
func (c Config) Grammar(name string) string {
	path, ok := c.Grammars[name]
	if !ok {
		return name
	}
	if !filepath.IsAbs(path) && c.dir != "" {
		return filepath.Join(c.dir, path)
	}
	return path
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
