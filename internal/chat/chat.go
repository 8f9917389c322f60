// Package chat is a minimal client for OpenAI-compatible chat completion
// endpoints. It makes a single request per call, with no retries, and honors
// the caller's context.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/iwvelando/repair-reserve/pkg/constants"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("chat client disabled: no API key configured")

// Config holds the connection settings for a chat endpoint.
type Config struct {
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	Model     string `yaml:"model" mapstructure:"model"`
	APIKeyEnv string `yaml:"apiKeyEnv" mapstructure:"apiKeyEnv"`
	Timeout   string `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens int    `yaml:"maxTokens" mapstructure:"maxTokens"`
}

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Client sends chat completion requests.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	maxTokens  int
	httpClient *http.Client
}

// NewClient builds a client from cfg, reading the API key from the configured
// environment variable. Missing fields fall back to package defaults.
func NewClient(cfg Config, defaultMaxTokens int) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = constants.DefaultChatEndpoint
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = constants.DefaultChatModel
	}
	keyEnv := strings.TrimSpace(cfg.APIKeyEnv)
	if keyEnv == "" {
		keyEnv = constants.DefaultAPIKeyEnv
	}
	timeoutStr := strings.TrimSpace(cfg.Timeout)
	if timeoutStr == "" {
		timeoutStr = constants.DefaultChatTimeout
	}
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid chat timeout %q: %w", cfg.Timeout, err)
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Client{
		endpoint:   endpoint,
		model:      model,
		apiKey:     os.Getenv(keyEnv),
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Enabled reports whether the client has an API key.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Complete sends the system and user prompts and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	reqBody := completionRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens: c.maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("chat API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in chat response")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty chat response")
	}
	return content, nil
}
