// Package llm defines the provider-agnostic contract for invoking a chat
// completion backend with conversation context.
package llm

import "context"

// ContextPair is one historical exchange presented to the model as context.
// User is the utterance exactly as the user sent it; Assistant is the raw
// serialized model output exactly as it was persisted.
type ContextPair struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// Message is a single chat message in the provider wire format.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// Completer invokes an LLM backend with the current input and prior context.
// Implementations return the raw response text without interpreting it;
// classification happens downstream.
type Completer interface {
	Complete(ctx context.Context, input string, history []ContextPair) (string, error)
}

// ErrorResponse is the standard JSON error body returned by API handlers
// and decoded by CLI clients.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}
