// Package mood classifies card content as positive, neutral, or negative using
// word stems and punctuation.
package mood

import (
	"strings"

	"github.com/hyperjump/brainboard/internal/models"
)

var positiveStems = []string{
	"great", "excellent", "amazing", "awesome", "good", "better", "best", "improve", "success", "win",
	"love", "happy", "excited", "opportunity", "benefit", "advantage", "innovative", "creative", "perfect", "wonderful",
}

var negativeStems = []string{
	"bad", "worse", "worst", "problem", "issue", "bug", "error", "fail", "failure", "difficult",
	"hard", "challenge", "risk", "concern", "worry", "hate", "angry", "frustrat", "broken", "critical",
}

// Score holds the two polarity tallies.
type Score struct {
	Positive float64
	Negative float64
}

// Mood maps the tallies to a label. Ties are neutral.
func (s Score) Mood() models.Mood {
	switch {
	case s.Positive > s.Negative:
		return models.MoodPositive
	case s.Negative > s.Positive:
		return models.MoodNegative
	default:
		return models.MoodNeutral
	}
}

// Tally counts each stem found in content once. "!" adds a point to the
// positive side and "?" half a point to the negative side.
func Tally(content string) Score {
	text := strings.ToLower(content)
	var s Score
	for _, w := range positiveStems {
		if strings.Contains(text, w) {
			s.Positive++
		}
	}
	for _, w := range negativeStems {
		if strings.Contains(text, w) {
			s.Negative++
		}
	}
	if strings.Contains(content, "!") {
		s.Positive++
	}
	if strings.Contains(content, "?") {
		s.Negative += 0.5
	}
	return s
}

// Analyze classifies content.
func Analyze(content string) models.Mood {
	return Tally(content).Mood()
}
