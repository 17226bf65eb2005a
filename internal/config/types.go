package config

// Config is the root configuration for loom.
type Config struct {
	Defaults  DefaultsConfig           `yaml:"defaults,omitempty"`
	Providers map[string]ProviderEntry `yaml:"providers,omitempty"`
	Store     StoreConfig              `yaml:"store,omitempty"`
	Logging   LoggingConfig            `yaml:"logging,omitempty"`
	Palette   []string                 `yaml:"palette,omitempty"` // agent display colors, cycled in order
}

// DefaultsConfig defines the settings new agents start with.
type DefaultsConfig struct {
	Provider    string   `yaml:"provider,omitempty"`
	Model       string   `yaml:"model,omitempty"` // defaulted from the provider catalog when empty
	MaxTokens   int      `yaml:"maxTokens,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
}

// ProviderEntry carries credentials and endpoint overrides for one provider.
type ProviderEntry struct {
	APIKey  string `yaml:"apiKey,omitempty"` // may be a ${ENV_VAR} reference
	BaseURL string `yaml:"baseUrl,omitempty"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `yaml:"driver,omitempty"` // "sqlite" | "memory"
	Path   string `yaml:"path,omitempty"`   // sqlite database path; defaults under the data dir
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	File         string `yaml:"file,omitempty"`
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "json"
}
