// Package caption asks an OpenAI-compatible vision endpoint for
// accessibility descriptions of slide images, with a SQLite cache keyed by
// image content hash so re-runs never re-bill the service.
package caption

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// instructions is the fixed prompt sent with every image.
const instructions = "Describe the image below to a blind person. " +
	"Do not give definitions of the image's contents. " +
	"Assume your audience is familiar with the concepts in the image and just needs a description of the image. " +
	"Make no mention of color. " +
	"Focus on describing the locations of the things you describe and how they are graphically depicted in the image. " +
	"Use no more than 200 words."

// Config configures the captioning client.
type Config struct {
	// BaseURL of the chat-completions API (default: https://api.openai.com/v1).
	BaseURL string `yaml:"base_url"`
	// APIKey is the bearer credential. Empty disables the client.
	APIKey string `yaml:"api_key"`
	// Model to query (default: gpt-4-vision-preview).
	Model string `yaml:"model"`
	// MaxTokens caps the completion length (default: 1000).
	MaxTokens int `yaml:"max_tokens"`
	// Timeout bounds each request (default: 120s).
	Timeout time.Duration `yaml:"timeout"`

	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.Model == "" {
		c.Model = "gpt-4-vision-preview"
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1000
	}
	if c.Timeout <= 0 {
		c.Timeout = 120 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Client is a synchronous chat-completions client. One request in flight,
// no retries: a transient failure surfaces immediately.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a Client with the given configuration.
func New(cfg Config) *Client {
	cfg.defaults()
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Describe posts image (with its MIME type) to the service and returns the
// text description. Non-2xx responses become errors carrying status and body.
func (c *Client) Describe(ctx context.Context, image []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	dataURI := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
	payload := map[string]any{
		"model":      c.cfg.Model,
		"max_tokens": c.cfg.MaxTokens,
		"messages": []map[string]any{{
			"role": "user",
			"content": []map[string]any{
				{"type": "text", "text": instructions},
				{"type": "image_url", "image_url": map[string]any{"url": dataURI}},
			},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	c.cfg.Logger.Debug("caption request", "model", c.cfg.Model, "bytes", len(image))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("caption request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read caption response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("caption service: status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed completionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode caption response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("caption service: empty choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
