package external

import (
	"fmt"
	"strings"

	"github.com/hyperjump/brainboard/internal/models"
)

const (
	moodSystem = "Classify the emotional tone of the given idea as strictly positive, neutral, or negative. " +
		"Return only the structured field as JSON: {\"mood\": \"positive\" | \"neutral\" | \"negative\"}."

	summarySystem = "You are an expert product strategist. Read all cards and produce an objective board summary " +
		"with key themes, top ideas, and concrete next steps. Respond with a JSON object with the keys " +
		"summary (string), keyThemes, topIdeas and nextSteps (arrays of 1 to 5 strings)."

	suggestionsSystem = "You are a helpful brainstorming assistant. Suggest actionable, content-aware ideas. " +
		"Prefer specific, short bullets. 6-10 total suggestions."
)

func moodPrompt(content string) string {
	return fmt.Sprintf("Idea: \"\"\"%s\"\"\"", content)
}

func summaryPrompt(cards []models.Card) string {
	var b strings.Builder
	b.WriteString("Cards:\n")
	for i, c := range cards {
		fmt.Fprintf(&b, "- (%d) %s\n", i+1, c.Content)
	}
	b.WriteString("\nProduce structured results.")
	return b.String()
}

func suggestionsPrompt(cards []models.Card) string {
	var b strings.Builder
	b.WriteString("Based on these cards:\n")
	for i, c := range cards {
		fmt.Fprintf(&b, "(%d) %s\n", i+1, c.Content)
	}
	b.WriteString("\nGenerate concise, actionable suggestions (one per line).")
	return b.String()
}
