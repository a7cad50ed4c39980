// Package mcp exposes the board analysis operations as MCP tools over stdio.
package mcp

import (
	"context"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/hyperjump/brainboard/internal/models"
)

// Analyzer is the analysis surface the tools call.
type Analyzer interface {
	AnalyzeMood(ctx context.Context, content string) (models.Mood, error)
	ClusterCards(ctx context.Context, cards []models.Card) ([]models.Cluster, error)
	SearchCards(ctx context.Context, cards []models.Card, query string) ([]models.SearchResult, error)
	GenerateSuggestions(ctx context.Context, cards []models.Card) ([]string, error)
	SummarizeBoard(ctx context.Context, cards []models.Card) (models.Summary, error)
}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

var toolRegistry = map[string]toolEntry{
	"analyze_mood": {
		def:     moodToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMood },
	},
	"cluster_cards": {
		def:     clusterToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCluster },
	},
	"search_cards": {
		def:     searchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSearch },
	},
	"generate_suggestions": {
		def:     suggestionsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSuggestions },
	},
	"summarize_board": {
		def:     summaryToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSummary },
	},
}

// ToolNames returns the registered tool names in sorted order.
func ToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewServer creates an MCP server with every board tool registered.
func NewServer(analyzer Analyzer, version string, logger *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"brainboard",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(analyzer, logger)
	for _, name := range ToolNames() {
		entry := toolRegistry[name]
		s.AddTool(entry.def, entry.handler(h))
	}
	return s
}

// Run serves the tools on stdin/stdout until the input closes.
func Run(analyzer Analyzer, version string, logger *zap.Logger) error {
	return server.ServeStdio(NewServer(analyzer, version, logger))
}
