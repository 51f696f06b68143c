// Package llm talks to an Ollama-compatible chat endpoint. One request, one
// response: no streaming, no retries.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// LocalPrefix marks a model identifier as a local-runtime variant. It is
// stripped before config lookup and before the API call: the runtime
// registers the model under its bare name.
const LocalPrefix = "ollama:"

// ErrContextOverflow classifies provider failures caused by the prompt
// exceeding the model's native sequence length. Callers test with errors.Is
// instead of re-matching provider error text.
var ErrContextOverflow = errors.New("prompt exceeds model context length")

func StripLocalPrefix(model string) string {
	return strings.TrimPrefix(model, LocalPrefix)
}

type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient builds a client for the given base URL. The HTTP client carries
// no timeout: a hung model call blocks the whole run, which is an accepted
// limitation of this tool rather than a designed policy.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		logger:  logger.With("component", "llm"),
	}
}

// GenerateRequest is one chat completion. MaxTokens <= 0 omits the
// generation ceiling from the request.
type GenerateRequest struct {
	Model     string
	System    string
	Prompt    string
	MaxTokens int
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	NumPredict int `json:"num_predict,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *chatOptions  `json:"options,omitempty"`
}

type chatResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

// Generate sends the system and user content to the model and returns the
// generated text.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	payload := chatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   false,
	}
	if req.MaxTokens > 0 {
		payload.Options = &chatOptions{NumPredict: req.MaxTokens}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	c.logger.Debug("chat request",
		"model", req.Model,
		"prompt_chars", len(req.Prompt),
		"system_chars", len(req.System),
		"max_tokens", req.MaxTokens)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", classify(fmt.Errorf("model error: %s", strings.TrimSpace(string(respBody))))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode model response: %w", err)
	}
	if parsed.Error != "" {
		return "", classify(fmt.Errorf("model error: %s", parsed.Error))
	}

	return parsed.Message.Content, nil
}

// classify wraps context-length failures with ErrContextOverflow. Ollama
// reports no structured error kind, so this is a substring heuristic on the
// provider's message text; it lives here and nowhere else.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "context length") ||
		strings.Contains(msg, "sequence length is longer than the specified maximum") {
		return fmt.Errorf("%w: %s", ErrContextOverflow, err.Error())
	}
	return err
}
