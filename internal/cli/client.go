package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hyperjump/brainboard/internal/models"
)

// Client calls a running brainboard server. It satisfies the same analysis
// interface as the local insight service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the server at baseURL. A nil httpClient gets
// a 60 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errBody) == nil && errBody.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, errBody.Error)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// AnalyzeMood calls POST /api/ai/mood.
func (c *Client) AnalyzeMood(ctx context.Context, content string) (models.Mood, error) {
	var out models.MoodResponse
	if err := c.post(ctx, "/api/ai/mood", map[string]string{"content": content}, &out); err != nil {
		return models.MoodNeutral, err
	}
	return out.Mood, nil
}

// ClusterCards calls POST /api/ai/cluster.
func (c *Client) ClusterCards(ctx context.Context, cards []models.Card) ([]models.Cluster, error) {
	var out struct {
		Clusters []models.Cluster `json:"clusters"`
	}
	if err := c.post(ctx, "/api/ai/cluster", map[string]any{"cards": nonNil(cards)}, &out); err != nil {
		return nil, err
	}
	return out.Clusters, nil
}

// SearchCards calls POST /api/ai/search.
func (c *Client) SearchCards(ctx context.Context, cards []models.Card, query string) ([]models.SearchResult, error) {
	var out struct {
		Results []models.SearchResult `json:"results"`
	}
	if err := c.post(ctx, "/api/ai/search", map[string]any{"cards": nonNil(cards), "query": query}, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// GenerateSuggestions calls POST /api/ai/suggestions.
func (c *Client) GenerateSuggestions(ctx context.Context, cards []models.Card) ([]string, error) {
	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := c.post(ctx, "/api/ai/suggestions", map[string]any{"cards": nonNil(cards)}, &out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

// SummarizeBoard calls POST /api/ai/summary.
func (c *Client) SummarizeBoard(ctx context.Context, cards []models.Card) (models.Summary, error) {
	var out models.Summary
	if err := c.post(ctx, "/api/ai/summary", map[string]any{"cards": nonNil(cards)}, &out); err != nil {
		return models.Summary{}, err
	}
	return out, nil
}

// nonNil keeps a nil board from encoding as null, which the server rejects.
func nonNil(cards []models.Card) []models.Card {
	if cards == nil {
		return []models.Card{}
	}
	return cards
}
