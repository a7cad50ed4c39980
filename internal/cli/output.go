// Package cli provides output formatting and a remote client for the brainboard CLI.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hyperjump/brainboard/internal/models"
	"github.com/hyperjump/brainboard/internal/ranking"
	"github.com/hyperjump/brainboard/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// contentWidth bounds card content in text output.
const contentWidth = 120

const rule = "─────────────────────────────────────────────────────────"

// ParseFormat validates an --output value.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text or json)", s)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteMood writes a mood label.
func WriteMood(w io.Writer, mood models.Mood, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, models.MoodResponse{Mood: mood})
	}
	_, err := fmt.Fprintln(w, mood)
	return err
}

// WriteClusters writes clusters. In text mode each member card is listed by
// content when cards contains it.
func WriteClusters(w io.Writer, clusters []models.Cluster, cards []models.Card, format OutputFormat) error {
	if format == OutputJSON {
		if clusters == nil {
			clusters = []models.Cluster{}
		}
		return writeJSON(w, map[string]any{"clusters": clusters})
	}
	if len(clusters) == 0 {
		_, err := fmt.Fprintln(w, "No clusters (at least two cards are needed).")
		return err
	}
	byID := make(map[string]string, len(cards))
	for _, c := range cards {
		byID[c.ID] = c.Content
	}
	for _, cl := range clusters {
		fmt.Fprintf(w, "%s  %s (%d)\n", cl.Color, cl.Name, len(cl.CardIDs))
		for _, id := range cl.CardIDs {
			text, ok := byID[id]
			if !ok {
				text = id
			}
			fmt.Fprintf(w, "    • %s\n", utils.Truncate(text, contentWidth))
		}
	}
	return nil
}

// WriteResults writes ranked search results.
func WriteResults(w io.Writer, query string, results []models.SearchResult, format OutputFormat) error {
	if format == OutputJSON {
		if results == nil {
			results = []models.SearchResult{}
		}
		return writeJSON(w, map[string]any{"results": results})
	}
	fmt.Fprintf(w, "\nFound %d results for %q\n\n", len(results), query)
	for i, r := range results {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Rank: %d | Relevance: %.4f | ID: %s\n", i+1, r.Relevance, r.ID)
		fmt.Fprintf(w, "%s\n\n", utils.Truncate(r.Content, contentWidth*2))
	}
	return nil
}

type explanationJSON struct {
	models.SearchResult
	Match  string             `json:"match"`
	Scores map[string]float64 `json:"scores"`
}

// WriteExplanations writes ranked search results with each scorer's share.
func WriteExplanations(w io.Writer, query string, hits []ranking.Explanation, format OutputFormat) error {
	if format == OutputJSON {
		out := make([]explanationJSON, 0, len(hits))
		for _, h := range hits {
			out = append(out, explanationJSON{
				SearchResult: h.Result,
				Match:        h.Breakdown.MatchType.String(),
				Scores:       h.Breakdown.Scores,
			})
		}
		return writeJSON(w, map[string]any{"results": out})
	}
	fmt.Fprintf(w, "\nFound %d results for %q\n\n", len(hits), query)
	for i, h := range hits {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Rank: %d | Relevance: %.4f | Match: %s | ID: %s\n",
			i+1, h.Result.Relevance, h.Breakdown.MatchType, h.Result.ID)
		names := make([]string, 0, len(h.Breakdown.Scores))
		for name := range h.Breakdown.Scores {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for j, name := range names {
			parts[j] = fmt.Sprintf("%s=%.2f", name, h.Breakdown.Scores[name])
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(parts, " "))
		fmt.Fprintf(w, "%s\n\n", utils.Truncate(h.Result.Content, contentWidth*2))
	}
	return nil
}

// WriteSuggestions writes one suggestion per line.
func WriteSuggestions(w io.Writer, suggestions []string, format OutputFormat) error {
	if format == OutputJSON {
		if suggestions == nil {
			suggestions = []string{}
		}
		return writeJSON(w, map[string]any{"suggestions": suggestions})
	}
	for _, s := range suggestions {
		fmt.Fprintf(w, "- %s\n", s)
	}
	return nil
}

// WriteSummary writes a board summary.
func WriteSummary(w io.Writer, summary models.Summary, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, summary)
	}
	fmt.Fprintf(w, "%s\n", summary.Summary)
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s:\n", title)
		for _, item := range items {
			fmt.Fprintf(w, "  - %s\n", item)
		}
	}
	section("Key themes", summary.KeyThemes)
	section("Top ideas", summary.TopIdeas)
	section("Next steps", summary.NextSteps)
	return nil
}

// WriteCards writes imported cards. JSON output can be fed back to any command.
func WriteCards(w io.Writer, cards []models.Card, format OutputFormat) error {
	if format == OutputJSON {
		if cards == nil {
			cards = []models.Card{}
		}
		return writeJSON(w, cards)
	}
	for _, c := range cards {
		fmt.Fprintf(w, "%s  %s\n", c.ID, utils.Truncate(c.Content, contentWidth))
	}
	return nil
}
