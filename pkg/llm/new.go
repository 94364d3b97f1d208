package llm

import "fmt"

// Supported provider names.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// SupportedProviders returns the provider names a Completer can be built for.
func SupportedProviders() []string {
	return []string{ProviderOpenAI, ProviderOllama}
}

// UnsupportedProviderError is returned for unrecognized provider names.
type UnsupportedProviderError struct {
	Provider string
}

func (e UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported llm provider: %q", e.Provider)
}
