package mcp

import "github.com/mark3labs/mcp-go/mcp"

var cardSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":      map[string]any{"type": "string"},
		"content": map[string]any{"type": "string"},
	},
	"required": []string{"id", "content"},
}

func cardsArg() mcp.ToolOption {
	return mcp.WithArray("cards",
		mcp.Required(),
		mcp.Description("Board cards, each with an id and free-text content"),
		mcp.Items(cardSchema),
	)
}

var moodToolDef = mcp.NewTool("analyze_mood",
	mcp.WithDescription("Classify the mood of a piece of card text as positive, neutral or negative."),
	mcp.WithString("content", mcp.Required(), mcp.Description("Card text to classify")),
)

var clusterToolDef = mcp.NewTool("cluster_cards",
	mcp.WithDescription("Group board cards into named, colored clusters."),
	cardsArg(),
)

var searchToolDef = mcp.NewTool("search_cards",
	mcp.WithDescription("Rank board cards by relevance to a query."),
	cardsArg(),
	mcp.WithString("query", mcp.Required(), mcp.Description("Search query; a blank query returns no results")),
)

var suggestionsToolDef = mcp.NewTool("generate_suggestions",
	mcp.WithDescription("Suggest follow-up ideas and questions for a board."),
	cardsArg(),
)

var summaryToolDef = mcp.NewTool("summarize_board",
	mcp.WithDescription("Summarize a board into a paragraph, key themes, top ideas and next steps."),
	cardsArg(),
)
