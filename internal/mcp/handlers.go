package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/hyperjump/brainboard/internal/models"
	"github.com/hyperjump/brainboard/pkg/utils"
)

// Error codes carried in error results.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternal       = "INTERNAL"
)

var errQueryRequired = errors.New("query is required")

// Handlers holds dependencies for the tool handlers.
type Handlers struct {
	analyzer Analyzer
	logger   *zap.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(analyzer Analyzer, logger *zap.Logger) *Handlers {
	logger = utils.OrNop(logger)
	return &Handlers{analyzer: analyzer, logger: logger}
}

// MoodRequest represents the arguments for analyze_mood.
type MoodRequest struct {
	Content string `json:"content"`
}

// CardsRequest represents the arguments for the board-wide tools.
type CardsRequest struct {
	Cards json.RawMessage `json:"cards"`
}

// SearchRequest represents the arguments for search_cards.
type SearchRequest struct {
	Cards json.RawMessage `json:"cards"`
	Query *string         `json:"query"`
}

// HandleMood handles analyze_mood.
func (h *Handlers) HandleMood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MoodRequest](req)
	if err != nil {
		return errorResult(CodeInvalidRequest, err.Error()), nil
	}
	if input.Content == "" {
		return errorResult(CodeInvalidRequest, "content is required"), nil
	}
	mood, err := h.analyzer.AnalyzeMood(ctx, input.Content)
	if err != nil {
		return h.internal("analyze_mood", err), nil
	}
	return successResult(models.MoodResponse{Mood: mood})
}

// HandleCluster handles cluster_cards.
func (h *Handlers) HandleCluster(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cards, err := decodeCards(req)
	if err != nil {
		return errorResult(CodeInvalidRequest, err.Error()), nil
	}
	clusters, err := h.analyzer.ClusterCards(ctx, cards)
	if err != nil {
		return h.internal("cluster_cards", err), nil
	}
	if clusters == nil {
		clusters = []models.Cluster{}
	}
	return successResult(map[string]any{"clusters": clusters})
}

// HandleSearch handles search_cards.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(CodeInvalidRequest, err.Error()), nil
	}
	cards, err := models.DecodeCards(input.Cards)
	if err != nil {
		return errorResult(CodeInvalidRequest, err.Error()), nil
	}
	if input.Query == nil {
		return errorResult(CodeInvalidRequest, errQueryRequired.Error()), nil
	}
	if strings.TrimSpace(*input.Query) == "" {
		return successResult(map[string]any{"results": []models.SearchResult{}})
	}
	results, err := h.analyzer.SearchCards(ctx, cards, *input.Query)
	if err != nil {
		return h.internal("search_cards", err), nil
	}
	if results == nil {
		results = []models.SearchResult{}
	}
	return successResult(map[string]any{"results": results})
}

// HandleSuggestions handles generate_suggestions.
func (h *Handlers) HandleSuggestions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cards, err := decodeCards(req)
	if err != nil {
		return errorResult(CodeInvalidRequest, err.Error()), nil
	}
	suggestions, err := h.analyzer.GenerateSuggestions(ctx, cards)
	if err != nil {
		return h.internal("generate_suggestions", err), nil
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return successResult(map[string]any{"suggestions": suggestions})
}

// HandleSummary handles summarize_board.
func (h *Handlers) HandleSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cards, err := decodeCards(req)
	if err != nil {
		return errorResult(CodeInvalidRequest, err.Error()), nil
	}
	summary, err := h.analyzer.SummarizeBoard(ctx, cards)
	if err != nil {
		return h.internal("summarize_board", err), nil
	}
	return successResult(summary)
}

func decodeCards(req mcp.CallToolRequest) ([]models.Card, error) {
	input, err := decode[CardsRequest](req)
	if err != nil {
		return nil, err
	}
	return models.DecodeCards(input.Cards)
}

func (h *Handlers) internal(tool string, err error) *mcp.CallToolResult {
	h.logger.Error("tool failed", zap.String("tool", tool), zap.Error(err))
	return errorResult(CodeInternal, "an internal error occurred")
}

// errorResult creates an MCP error result. Details of internal errors are
// never included.
func errorResult(code, message string) *mcp.CallToolResult {
	payload := map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	}
	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
