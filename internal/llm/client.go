// Package llm calls OpenAI-compatible chat completion and embedding endpoints.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

// RetryBaseDelay is the first backoff after an HTTP 429. Tests override it.
var RetryBaseDelay = 500 * time.Millisecond

const defaultMaxAttempts = 3

// ErrRateLimited is returned when every attempt was answered with HTTP 429.
var ErrRateLimited = errors.New("llm: rate limited")

// Client calls an OpenAI-compatible API rooted at BaseURL (for example
// https://api.openai.com/v1).
type Client struct {
	BaseURL        string
	APIKey         string
	Model          string
	EmbeddingModel string
	MaxAttempts    int

	HTTPClient *http.Client
}

// Config is the yaml shape of a Client.
type Config struct {
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"`
	Model          string        `yaml:"model"`
	EmbeddingModel string        `yaml:"embedding_model"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxAttempts    int           `yaml:"max_attempts"`
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:         cfg.APIKey,
		Model:          cfg.Model,
		EmbeddingModel: cfg.EmbeddingModel,
		MaxAttempts:    cfg.MaxAttempts,
		HTTPClient:     &http.Client{Timeout: timeout},
	}
}

// Prompt is one system/user exchange.
type Prompt struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	JSON        bool
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *apiError `json:"error"`
}

// Chat sends p and returns the first choice's content.
func (c *Client) Chat(ctx context.Context, p Prompt) (string, error) {
	if c.BaseURL == "" || c.Model == "" {
		return "", fmt.Errorf("llm: base URL and model required")
	}
	req := chatRequest{
		Model:     c.Model,
		Messages:  []chatMessage{{Role: "system", Content: p.System}, {Role: "user", Content: p.User}},
		MaxTokens: p.MaxTokens,
	}
	if p.Temperature > 0 {
		t := p.Temperature
		req.Temperature = &t
	}
	if p.JSON {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	var payload chatResponse
	if err := c.post(ctx, "/chat/completions", req, &payload); err != nil {
		return "", err
	}
	if payload.Error != nil {
		return "", fmt.Errorf("llm error: %s", payload.Error.Message)
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return payload.Choices[0].Message.Content, nil
}

// ChatJSON sends p in JSON mode and decodes the reply into out.
func (c *Client) ChatJSON(ctx context.Context, p Prompt, out any) error {
	p.JSON = true
	text, err := c.Chat(ctx, p)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(StripFence(text)), out); err != nil {
		return fmt.Errorf("llm: decode structured reply: %w", err)
	}
	return nil
}

// Embeddings returns one vector per text, in input order.
func (c *Client) Embeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if c.BaseURL == "" || c.EmbeddingModel == "" {
		return nil, fmt.Errorf("llm: base URL and embedding model required")
	}
	var payload embeddingResponse
	if err := c.post(ctx, "/embeddings", embeddingRequest{Model: c.EmbeddingModel, Input: texts}, &payload); err != nil {
		return nil, err
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("llm error: %s", payload.Error.Message)
	}
	out := make([][]float32, len(texts))
	for _, d := range payload.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("llm: embedding index %d out of range", d.Index)
		}
		out[d.Index] = d.Embedding
	}
	for i, v := range out {
		if v == nil {
			return nil, fmt.Errorf("llm: missing embedding for input %d", i)
		}
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := c.doWithRetry(ctx, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var payload struct {
			Error *apiError `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(data, &payload) == nil && payload.Error != nil {
			return fmt.Errorf("llm: status %d: %s", resp.StatusCode, payload.Error.Message)
		}
		return fmt.Errorf("llm: status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("llm: decode response: %w", err)
	}
	return nil
}

// doWithRetry retries on HTTP 429 with exponential backoff starting at
// RetryBaseDelay. Cancelling ctx during a wait returns ctx.Err().
func (c *Client) doWithRetry(ctx context.Context, url string, body []byte) (*http.Response, error) {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.APIKey)
		}
		resp, err := c.httpClient().Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if attempt+1 >= attempts {
			return nil, ErrRateLimited
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}

// StripFence removes a surrounding ``` or ```json fence.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
