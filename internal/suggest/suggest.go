// Package suggest generates rule-based recommendations for a board.
package suggest

import (
	"regexp"
	"strings"

	"github.com/hyperjump/brainboard/internal/keyword"
	"github.com/hyperjump/brainboard/internal/lexicon"
	"github.com/hyperjump/brainboard/internal/models"
	"github.com/hyperjump/brainboard/pkg/utils"
)

// Limit is the number of suggestions returned for a non-empty board.
const Limit = 7

// Placeholder is the only suggestion for an empty board.
const Placeholder = "Add some cards to get AI-powered suggestions!"

var (
	actionPattern   = regexp.MustCompile(`(?i)\b(implement|create|build|design|develop|add|fix|update|improve)\b`)
	priorityPattern = regexp.MustCompile(`(?i)\b(urgent|important|critical|priority|asap)\b`)
)

const (
	tipDiversify  = "Expand your brainstorming by adding more diverse ideas to explore different angles"
	tipQuestions  = "Convert open questions into actionable research tasks or investigation items"
	tipBreakDown  = "Break down implementation ideas into smaller, manageable subtasks with clear deliverables"
	tipPrioritize = "Consider prioritizing your ideas by urgency and impact to focus on what matters most"
)

// keywordRule fires when any of its keywords is extracted from the board.
type keywordRule struct {
	keywords []string
	tip      string
}

var keywordRules = []keywordRule{
	{[]string{"user", "customer"}, "Gather user feedback or conduct user research to validate these ideas"},
	{[]string{"feature", "functionality"}, "Create user stories or acceptance criteria for each feature to clarify requirements"},
	{[]string{"design", "interface"}, "Sketch wireframes or mockups to visualize the design concepts before implementation"},
	{[]string{"data", "database"}, "Define data models and relationships to ensure scalable architecture"},
	{[]string{"test", "testing"}, "Develop a comprehensive testing strategy including unit, integration, and E2E tests"},
}

// Generic pads short lists.
var Generic = []string{
	"Group related ideas together to identify common themes and patterns",
	"Consider potential risks or challenges for each idea and plan mitigation strategies",
	"Identify dependencies between ideas to determine the optimal execution order",
	"Add time estimates to help with project planning and resource allocation",
	"Document assumptions and constraints to ensure everyone has the same understanding",
}

// Flags are the board-wide content signals.
type Flags struct {
	Questions bool
	Actions   bool
	Priority  bool
}

// Detect computes flags over every card.
func Detect(contents []string) Flags {
	var f Flags
	for _, c := range contents {
		f.Questions = f.Questions || strings.Contains(c, "?")
		f.Actions = f.Actions || actionPattern.MatchString(c)
		f.Priority = f.Priority || priorityPattern.MatchString(c)
	}
	return f
}

// Generate returns up to Limit distinct suggestions for cards.
func Generate(cards []models.Card, set *lexicon.Set) []string {
	if len(cards) == 0 {
		return []string{Placeholder}
	}
	contents := models.Contents(cards)
	allText := strings.Join(contents, " ")
	flags := Detect(contents)
	present := keyword.Long.Set(allText)

	var out []string
	if len(cards) < 3 {
		out = append(out, tipDiversify)
	}
	if flags.Questions {
		out = append(out, tipQuestions)
	}
	if flags.Actions {
		out = append(out, tipBreakDown)
	}
	if !flags.Priority && len(cards) > 5 {
		out = append(out, tipPrioritize)
	}
	for _, r := range keywordRules {
		for _, k := range r.keywords {
			if _, ok := present[k]; ok {
				out = append(out, r.tip)
				break
			}
		}
	}
	for _, p := range set.Detected(allText) {
		out = utils.AppendUnique(out, p.Suggestions...)
	}
	return utils.Cap(pad(out), Limit)
}

// pad fills up to Limit from Generic in pool order, skipping entries already
// present. A board with few specific suggestions may end below Limit once the
// pool is exhausted.
func pad(out []string) []string {
	for _, g := range Generic {
		if len(out) >= Limit {
			break
		}
		out = utils.AppendUnique(out, g)
	}
	return out
}
