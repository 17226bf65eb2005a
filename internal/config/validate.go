package config

import (
	"fmt"
	"slices"

	"github.com/loomhq/loom/internal/llm"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validConsoleStyles := []string{"pretty", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle),
		})
	}

	validDrivers := []string{"sqlite", "memory"}
	if cfg.Store.Driver != "" && !slices.Contains(validDrivers, cfg.Store.Driver) {
		issues = append(issues, ValidationIssue{
			Path:    "store.driver",
			Message: fmt.Sprintf("must be one of %v, got %q", validDrivers, cfg.Store.Driver),
		})
	}

	if p := cfg.Defaults.Provider; p != "" {
		if !slices.Contains(llm.Providers(), p) {
			issues = append(issues, ValidationIssue{
				Path:    "defaults.provider",
				Message: fmt.Sprintf("unknown provider %q", p),
			})
		} else if m := cfg.Defaults.Model; m != "" && !llm.ValidModel(p, m) {
			issues = append(issues, ValidationIssue{
				Path:    "defaults.model",
				Message: fmt.Sprintf("model %q is not known for provider %q", m, p),
			})
		}
	}

	if cfg.Defaults.MaxTokens < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "defaults.maxTokens",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Defaults.MaxTokens),
		})
	}

	return issues
}
