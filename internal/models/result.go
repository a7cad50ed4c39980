package models

// Cluster is a named, colored group of cards. CardIDs keep first-assigned order.
type Cluster struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	CardIDs []string `json:"cardIds"`
	Color   string   `json:"color"`
}

// SearchResult is a single ranked card.
type SearchResult struct {
	ID        string  `json:"id"`
	Content   string  `json:"content"`
	Relevance float64 `json:"relevance"`
}

// Summary is the board summary. All three lists hold at most five entries.
type Summary struct {
	Summary   string   `json:"summary" validate:"required"`
	KeyThemes []string `json:"keyThemes" validate:"required,min=1,max=5,dive,required"`
	TopIdeas  []string `json:"topIdeas" validate:"required,min=1,max=5,dive,required"`
	NextSteps []string `json:"nextSteps" validate:"required,min=1,max=5,dive,required"`
}

// EmptySummary returns a summary with the given text and empty, non-nil lists.
func EmptySummary(text string) Summary {
	return Summary{
		Summary:   text,
		KeyThemes: []string{},
		TopIdeas:  []string{},
		NextSteps: []string{},
	}
}
