// Package llm implements an OpenAI-compatible chat-completion client with
// text and vision support. NVIDIA's integrate API is the default endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/budgeat/backend/internal/domain"
)

const (
	defaultMaxTokens   = 2048
	defaultTemperature = 0.7
)

type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// contentPart is one element of a multimodal message content array
type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	Stream      bool      `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Config holds chat API settings
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Client is an OpenAI-compatible chat-completions client
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
}

// NewClient creates a chat client from config
func NewClient(cfg Config) *Client {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Complete sends a single-turn text prompt and returns the assistant reply
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.chat(ctx, []message{{Role: "user", Content: prompt}})
}

// AnalyzeImage sends a prompt together with an image encoded as a base64
// data URL, the content-array form vision endpoints expect.
func (c *Client) AnalyzeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(image)
	content := []contentPart{
		{Type: "text", Text: prompt},
		{Type: "image_url", ImageURL: &imageURL{
			URL: fmt.Sprintf("data:%s;base64,%s", mimeType, encoded),
		}},
	}
	return c.chat(ctx, []message{{Role: "user", Content: content}})
}

// chat executes one chat-completions request and returns the first choice
func (c *Client) chat(ctx context.Context, messages []message) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: API key not configured", domain.ErrModelAPIFailure)
	}

	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrModelAPIFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrModelAPIFailure, resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: response contained no choices", domain.ErrModelAPIFailure)
	}

	return chatResp.Choices[0].Message.Content, nil
}
