// Package testutils provides mock collaborators shared across test suites.
package testutils

import (
	"context"

	"github.com/quillardco/sensei/pkg/llm"
)

// MockCompleter is a test completer that returns a canned response
type MockCompleter struct {
	// Output is returned from every Complete call
	Output string

	// Err, when set, causes Complete to fail
	Err error

	// Calls counts Complete invocations
	Calls int

	// LastInput and LastHistory record the most recent call
	LastInput   string
	LastHistory []llm.ContextPair
}

func NewMockCompleter(output string) *MockCompleter {
	return &MockCompleter{Output: output}
}

func (m *MockCompleter) Complete(_ context.Context, input string, history []llm.ContextPair) (string, error) {
	m.Calls++
	m.LastInput = input
	m.LastHistory = history

	if m.Err != nil {
		return "", m.Err
	}
	return m.Output, nil
}
