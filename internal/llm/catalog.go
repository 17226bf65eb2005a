package llm

import "fmt"

// ErrUnknownProvider is returned for lookups against a provider that is not
// in the catalog.
type ErrUnknownProvider struct {
	Provider string
}

func (e *ErrUnknownProvider) Error() string {
	return fmt.Sprintf("unknown provider %q", e.Provider)
}

// providerModels is the static provider → model-list table. The first entry
// of each list is the provider's default model.
var providerModels = map[string][]string{
	"anthropic": {
		"claude-sonnet-4-5",
		"claude-opus-4-1",
		"claude-haiku-4-5",
	},
	"openai": {
		"gpt-5",
		"gpt-5-mini",
		"gpt-4o",
	},
	"google": {
		"gemini-2.5-pro",
		"gemini-2.5-flash",
	},
	"ollama": {
		"llama3",
		"mistral",
	},
	"mock": {
		"mock-model",
	},
}

// Providers returns the known provider names.
func Providers() []string {
	names := make([]string, 0, len(providerModels))
	for name := range providerModels {
		names = append(names, name)
	}
	return names
}

// ValidModel reports whether the model belongs to the provider's model list.
// Unknown providers have no valid models.
func ValidModel(provider, model string) bool {
	for _, m := range providerModels[provider] {
		if m == model {
			return true
		}
	}
	return false
}

// DefaultModel returns the provider's default model.
func DefaultModel(provider string) (string, error) {
	models, ok := providerModels[provider]
	if !ok || len(models) == 0 {
		return "", &ErrUnknownProvider{Provider: provider}
	}
	return models[0], nil
}
