// Package e2e runs the analysis operations end to end over a generated board.
package e2e

import (
	"fmt"
	"strings"

	"github.com/hyperjump/brainboard/internal/models"
)

// QueryTestCase defines a query and the card ids of which at least one must be returned.
type QueryTestCase struct {
	Query           string
	ExpectedCardIDs []string
	Description     string
}

// Board holds cards and query test cases.
type Board struct {
	Cards     []models.Card
	TestCases []QueryTestCase
}

var topics = []struct {
	phrase  string
	content string
}{
	{"onboarding checklist", "Rewrite the onboarding checklist so new users reach their first board in two minutes"},
	{"dark mode", "Add a dark mode toggle to the settings page"},
	{"export to PDF", "Let teams export to PDF with column headers and card colors"},
	{"keyboard shortcuts", "Document keyboard shortcuts and show them in a help overlay"},
	{"pricing page", "Redesign the pricing page around seat based plans"},
	{"churn survey", "Send a churn survey to accounts that cancel within thirty days"},
	{"mobile app", "Ship the mobile app beta to the waiting list"},
	{"offline sync", "Support offline sync for boards edited on flights"},
	{"webhook retries", "Add webhook retries with exponential backoff for failed deliveries"},
	{"audit log", "Record an audit log of card moves for enterprise admins"},
	{"slack integration", "Post a daily digest through the slack integration"},
	{"card templates", "Offer card templates for retrospectives and planning poker"},
	{"search latency", "Search latency spikes above two seconds on boards with thousands of cards"},
	{"login bug", "Fix the login bug that logs users out after password reset"},
	{"accessibility audit", "Run an accessibility audit of color contrast and screen reader labels"},
	{"referral program", "Launch a referral program that gives both sides a free month"},
	{"quarterly roadmap", "Publish the quarterly roadmap on the public changelog"},
	{"customer interviews", "Schedule customer interviews with five agencies using boards for client work"},
	{"storage costs", "Cut storage costs by compressing attachment thumbnails"},
	{"localization", "Start localization with Spanish and Japanese translations"},
}

// BuildBoard returns a board of n cards cycling through the topics, and one
// query per topic targeting the first card that mentions it.
func BuildBoard(n int) *Board {
	cards := make([]models.Card, n)
	for i := range cards {
		t := topics[i%len(topics)]
		cards[i] = models.Card{
			ID:      fmt.Sprintf("e2e-card-%03d", i+1),
			Content: t.content,
		}
	}

	var cases []QueryTestCase
	for _, t := range topics {
		var ids []string
		for _, c := range cards {
			if strings.Contains(strings.ToLower(c.Content), strings.ToLower(t.phrase)) {
				ids = append(ids, c.ID)
			}
		}
		if len(ids) == 0 {
			continue
		}
		cases = append(cases, QueryTestCase{
			Query:           t.phrase,
			ExpectedCardIDs: ids,
			Description:     fmt.Sprintf("query %q should return one of %v", t.phrase, ids),
		})
	}
	return &Board{Cards: cards, TestCases: cases}
}

func containsAny(got []string, expected []string) bool {
	set := make(map[string]bool, len(got))
	for _, id := range got {
		set[id] = true
	}
	for _, id := range expected {
		if set[id] {
			return true
		}
	}
	return false
}
