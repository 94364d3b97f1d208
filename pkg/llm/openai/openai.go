// Package openai provides a Completer for OpenAI-compatible chat completion
// endpoints (OpenAI itself, plus the many servers that mirror its API).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quillardco/sensei/pkg/llm"
	"github.com/quillardco/sensei/pkg/utils"
)

const completionsPath = "/v1/chat/completions"

// Client is a minimal OpenAI chat completions client.
type Client struct {
	apiKey     string
	target     string
	model      string
	httpClient *http.Client
}

// NewClient creates an OpenAI-compatible client. Target is the base URL of
// the API (e.g. "https://api.openai.com").
func NewClient(target, model, apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		target: target,
		model:  model,
		httpClient: &http.Client{
			// LLM requests can be slow, especially with thinking blocks
			Timeout: 5 * time.Minute,
		},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a single chat completion request built from the response
// contract, the history window, and the current input.
func (c *Client) Complete(ctx context.Context, input string, history []llm.ContextPair) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: llm.BuildMessages(input, history),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal openai request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.target+completionsPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create openai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed reading openai response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai non-success status=%d body=%s", resp.StatusCode, utils.Truncate(string(body), 400))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse openai response: %s", utils.Truncate(string(body), 400))
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response contained no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
