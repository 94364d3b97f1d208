package config

const (
	defaultLLMProvider = "ollama"
	defaultLLMTarget   = "http://localhost:11434"
	defaultLLMModel    = "qwen2.5-coder"

	defaultAPIListen = ":8080"

	defaultClientAPITarget = "http://localhost:8080"

	defaultHistoryWindow = 5

	defaultEventsTopic = "sensei.turns"
)

// NewDefaultConfig returns a Config populated with every default value.
// This is the single source of truth for defaults; viper and the flag
// registry both read from it.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		LLM: LLMConfig{
			Provider: defaultLLMProvider,
			Target:   defaultLLMTarget,
			Model:    defaultLLMModel,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
		Assist: AssistConfig{
			HistoryWindow: defaultHistoryWindow,
		},
		Events: EventsConfig{
			Topic: defaultEventsTopic,
		},
	}
}
