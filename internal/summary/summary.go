// Package summary builds a board summary: themes from keyword frequency, the
// most detailed cards as top ideas, heuristic next steps, and a narrative.
package summary

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/brainboard/internal/keyword"
	"github.com/hyperjump/brainboard/internal/lexicon"
	"github.com/hyperjump/brainboard/internal/models"
	"github.com/hyperjump/brainboard/pkg/utils"
)

const (
	maxItems       = 5
	topKeywordN    = 5
	topIdeaN       = 3
	ideaPreviewLen = 60
)

// Fixed texts.
const (
	EmptyText     = "Your board is empty. Start adding ideas to get AI insights!"
	EmptyNextStep = "Add your first card to begin brainstorming"
)

type themeGroup struct {
	label    string
	triggers []string
}

var themeGroups = []themeGroup{
	{"Feature development and implementation", []string{"feature", "implement", "build", "develop"}},
	{"User experience and design", []string{"design", "interface", "user", "experience"}},
	{"Quality assurance and testing", []string{"test", "testing", "quality"}},
	{"Research and exploration", []string{"research", "investigate", "explore"}},
	{"Bug fixes and issue resolution", []string{"bug", "issue", "fix", "problem"}},
}

var genericThemes = []string{
	"General brainstorming and ideation",
	"Project planning and organization",
}

var actionPattern = regexp.MustCompile(`(?i)\b(implement|create|build|develop)\b`)

const (
	stepContinue   = "Continue brainstorming to generate more ideas and explore different perspectives"
	stepBreakDown  = "Break down implementation tasks into smaller, actionable subtasks"
	stepQuestions  = "Research and answer open questions to clarify requirements"
	stepPrioritize = "Prioritize ideas based on impact and effort to create an execution roadmap"
	stepReview     = "Review and refine ideas with stakeholders to ensure alignment"
	stepActions    = "Create detailed action items with owners and deadlines for next steps"
)

// Board summarizes cards using the packs in set.
func Board(cards []models.Card, set *lexicon.Set) models.Summary {
	if len(cards) == 0 {
		s := models.EmptySummary(EmptyText)
		s.NextSteps = []string{EmptyNextStep}
		return s
	}
	contents := models.Contents(cards)
	allText := strings.Join(contents, " ")

	themes := Themes(keyword.Long.Count(contents...).Top(topKeywordN))

	var nextSteps []string
	for _, p := range set.Detected(allText) {
		themes = utils.AppendUnique(themes, p.Themes...)
		nextSteps = utils.AppendUnique(nextSteps, p.NextSteps...)
	}
	if len(themes) == 0 {
		themes = append(themes, genericThemes...)
	}

	ideas := TopIdeas(contents)
	nextSteps = append(nextSteps, heuristicSteps(contents)...)

	return models.Summary{
		Summary:   narrative(contents, themes, ideas),
		KeyThemes: utils.Cap(themes, maxItems),
		TopIdeas:  utils.Cap(ideas, maxItems),
		NextSteps: utils.Cap(nextSteps, maxItems),
	}
}

// Themes maps top keywords to theme labels in group order.
func Themes(topKeywords []string) []string {
	themes := []string{}
	for _, g := range themeGroups {
		if hasAny(topKeywords, g.triggers) {
			themes = append(themes, g.label)
		}
	}
	return themes
}

func hasAny(words, triggers []string) bool {
	for _, w := range words {
		for _, t := range triggers {
			if w == t {
				return true
			}
		}
	}
	return false
}

// TopIdeas returns previews of the three longest contents. Equal lengths keep
// board order.
func TopIdeas(contents []string) []string {
	sorted := make([]string, len(contents))
	copy(sorted, contents)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i]) > utf8.RuneCountInString(sorted[j])
	})
	if len(sorted) > topIdeaN {
		sorted = sorted[:topIdeaN]
	}
	ideas := make([]string, len(sorted))
	for i, c := range sorted {
		ideas[i] = utils.Truncate(c, ideaPreviewLen)
	}
	return ideas
}

func heuristicSteps(contents []string) []string {
	var steps []string
	if len(contents) < 5 {
		steps = append(steps, stepContinue)
	}
	hasAction, hasQuestion := false, false
	for _, c := range contents {
		hasAction = hasAction || actionPattern.MatchString(c)
		hasQuestion = hasQuestion || strings.Contains(c, "?")
	}
	if hasAction {
		steps = append(steps, stepBreakDown)
	}
	if hasQuestion {
		steps = append(steps, stepQuestions)
	}
	if len(contents) > 10 {
		steps = append(steps, stepPrioritize)
	}
	return append(steps, stepReview, stepActions)
}

// Tier names the productivity level for a card count.
func Tier(count int) string {
	switch {
	case count >= 15:
		return "highly productive"
	case count >= 8:
		return "progressing well"
	case count >= 5:
		return "building momentum"
	default:
		return "just getting started"
	}
}

// AverageLength is the mean content length in characters, rounded half up.
func AverageLength(contents []string) int {
	if len(contents) == 0 {
		return 0
	}
	total := 0
	for _, c := range contents {
		total += utf8.RuneCountInString(c)
	}
	return int(math.Floor(float64(total)/float64(len(contents)) + 0.5))
}

func narrative(contents, themes, ideas []string) string {
	n := len(contents)
	plural := ""
	if n > 1 {
		plural = "s"
	}
	focus := "various topics"
	if len(themes) > 0 && themes[0] != "" {
		focus = strings.ToLower(themes[0])
	}
	closing := ""
	if len(ideas) > 0 {
		closing = "Several promising concepts have emerged that warrant further exploration."
	}
	return fmt.Sprintf(
		"Your brainstorming session is %s with %d idea%s captured. The ideas focus on %s, with an average detail level of %d characters per idea. %s",
		Tier(n), n, plural, focus, AverageLength(contents), closing,
	)
}
