package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValid(t *testing.T) {
	cfg := Defaults()
	issues := Validate(&cfg)
	assert.Empty(t, issues)
}

func TestValidateInvalidLogLevel(t *testing.T) {
	cfg := Defaults()
	cfg.Logging.Level = "verbose"
	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "logging.level", issues[0].Path)
}

func TestValidateInvalidDriver(t *testing.T) {
	cfg := Defaults()
	cfg.Store.Driver = "postgres"
	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "store.driver", issues[0].Path)
}

func TestValidateUnknownProvider(t *testing.T) {
	cfg := Defaults()
	cfg.Defaults.Provider = "nope"
	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "defaults.provider", issues[0].Path)
}

func TestValidateModelProviderMismatch(t *testing.T) {
	cfg := Defaults()
	cfg.Defaults.Provider = "anthropic"
	cfg.Defaults.Model = "gpt-5"
	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "defaults.model", issues[0].Path)
}

func TestValidateNegativeMaxTokens(t *testing.T) {
	cfg := Defaults()
	cfg.Defaults.MaxTokens = -1
	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "defaults.maxTokens", issues[0].Path)
}
