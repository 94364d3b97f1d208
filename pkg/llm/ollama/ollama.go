// Package ollama provides a Completer for a local Ollama server's /api/chat
// endpoint.
package ollama

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

const chatPath = "/api/chat"

// Client is a minimal Ollama chat client.
type Client struct {
	target     string
	model      string
	httpClient *http.Client
}

// NewClient creates an Ollama client. Target is the base URL of the server
// (e.g. "http://localhost:11434").
func NewClient(target, model string) *Client {
	return &Client{
		target: target,
		model:  model,
		httpClient: &http.Client{
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
	Message llm.Message `json:"message"`
	Done    bool        `json:"done"`
}

// Complete sends a single non-streaming chat request.
func (c *Client) Complete(ctx context.Context, input string, history []llm.ContextPair) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: llm.BuildMessages(input, history),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.target+chatPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed reading ollama response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ollama non-success status=%d body=%s", resp.StatusCode, utils.Truncate(string(body), 400))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse ollama response: %s", utils.Truncate(string(body), 400))
	}

	return parsed.Message.Content, nil
}
