package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"biblio/internal/suggest"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "biblio", "config.yml")
}

// DefaultDataPath returns the default location of the library data file.
func DefaultDataPath() string {
	return filepath.Join(xdg.DataHome, "biblio", "library.json")
}

// Load reads the config from disk (or env). A missing file is fine — every
// key has a default, so biblio runs unconfigured out of the box.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("data.path", DefaultDataPath())
	v.SetDefault("data.debounce_ms", 300)
	v.SetDefault("suggestions.enabled", true)
	v.SetDefault("suggestions.endpoint", suggest.DefaultEndpoint)
	v.SetDefault("suggestions.max_results", 5)

	v.SetEnvPrefix("BIBLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv("BIBLIO_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, isCfgNotFound := err.(viper.ConfigFileNotFoundError); !isCfgNotFound {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Data.Path = ExpandHome(cfg.Data.Path)
	if cfg.Data.DebounceMS <= 0 {
		cfg.Data.DebounceMS = 300
	}
	return &cfg, nil
}

// Save writes the config as YAML. An empty path means the default path.
// A file written by Save loads back identically through Load.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return enc.Close()
}

// ExpandHome expands a leading ~/ in a path.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
