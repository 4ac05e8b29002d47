package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultApp is the application tag tracked when no config file says otherwise.
const DefaultApp = "firefox"

// Config is the daemon configuration, read from
// $XDG_CONFIG_HOME/i3pin/config.toml (config.yaml is accepted when no TOML
// file exists). A missing config file is not an error; defaults apply.
type Config struct {
	App     string `toml:"app" yaml:"app"`         // application tag to track
	Journal *bool  `toml:"journal" yaml:"journal"` // event journal on/off, default on
}

// JournalEnabled reports whether the SQLite event journal should be written.
func (c Config) JournalEnabled() bool {
	return c.Journal == nil || *c.Journal
}

// defaultConfig returns the configuration used when no file is present.
func defaultConfig() Config {
	return Config{App: DefaultApp}
}

// configDir returns the i3pin config directory under $XDG_CONFIG_HOME or
// ~/.config.
func configDir() (string, error) {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "i3pin"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "i3pin"), nil
}

// LoadConfig reads the config file at path, or the default locations when
// path is empty. Unlike a missing file, an unreadable or malformed config is
// an error: silently tracking the wrong application would be worse than
// failing startup.
func LoadConfig(path string) (Config, error) {
	if path != "" {
		return readConfig(path)
	}

	dir, err := configDir()
	if err != nil {
		return Config{}, err
	}

	for _, name := range []string{"config.toml", "config.yaml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		return readConfig(p)
	}
	return defaultConfig(), nil
}

// readConfig decodes one config file, picking the decoder by extension.
func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := defaultConfig()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if cfg.App == "" {
		cfg.App = DefaultApp
	}
	return cfg, nil
}
