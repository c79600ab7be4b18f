package config

// Config is the top-level biblio configuration.
type Config struct {
	Data        DataConfig        `mapstructure:"data" yaml:"data"`
	Suggestions SuggestionsConfig `mapstructure:"suggestions" yaml:"suggestions"`
}

// DataConfig locates and tunes the JSON library store.
type DataConfig struct {
	Path       string `mapstructure:"path" yaml:"path"`
	DebounceMS int    `mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

// SuggestionsConfig controls the external metadata lookups offered in the
// add/edit form.
type SuggestionsConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Endpoint   string `mapstructure:"endpoint" yaml:"endpoint"`
	MaxResults int    `mapstructure:"max_results" yaml:"max_results"`
}
