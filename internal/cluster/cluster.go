// Package cluster groups cards by category rules, keyword similarity, and
// finally by their leading keyword.
package cluster

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hyperjump/brainboard/internal/keyword"
	"github.com/hyperjump/brainboard/internal/lexicon"
	"github.com/hyperjump/brainboard/internal/models"
	"github.com/hyperjump/brainboard/pkg/utils"
)

// SimilarityThreshold is the Jaccard score a card must exceed to join an
// existing cluster.
const SimilarityThreshold = 0.3

// OtherName labels a singleton cluster for a card without keywords.
const OtherName = "Other"

// Palette is cycled by cluster creation order.
var Palette = []string{"#3b82f6", "#10b981", "#f59e0b", "#ef4444", "#8b5cf6", "#ec4899"}

// namespace seeds cluster ids.
var namespace = uuid.MustParse("6f1c3f0e-0b7a-4c55-9a0e-5d6b8e2f4a11")

// Category claims any card whose lower-cased content contains one of its
// keywords.
type Category struct {
	Name     string
	Keywords []string
}

// Matches reports whether content (already lower-cased) contains a keyword.
func (c Category) Matches(content string) bool {
	return utils.ContainsAny(content, c.Keywords...)
}

// BaseCategories are checked in order before any domain pack category.
var BaseCategories = []Category{
	{Name: "Features & Development", Keywords: []string{"feature", "implement", "build", "develop", "code", "function"}},
	{Name: "Design & UI/UX", Keywords: []string{"design", "interface", "user", "experience", "layout", "visual"}},
	{Name: "Bugs & Issues", Keywords: []string{"bug", "issue", "error", "fix", "problem", "broken"}},
	{Name: "Research & Planning", Keywords: []string{"research", "investigate", "explore", "plan", "analyze", "study"}},
	{Name: "Testing & Quality", Keywords: []string{"test", "testing", "quality", "validation", "verify", "check"}},
	{Name: "Documentation", Keywords: []string{"document", "documentation", "guide", "readme", "wiki", "manual"}},
}

// Categories returns the base categories followed by one per pack in set.
func Categories(set *lexicon.Set) []Category {
	cats := make([]Category, 0, len(BaseCategories)+len(set.Packs()))
	cats = append(cats, BaseCategories...)
	for _, p := range set.Packs() {
		cats = append(cats, Category{Name: p.Category, Keywords: p.Terms})
	}
	return cats
}

// group is a cluster under construction. Cards keep placement order.
type group struct {
	name  string
	cards []models.Card
}

// Cards clusters cards in input order. Fewer than two cards yield no clusters.
// Every card lands in exactly one cluster.
func Cards(cards []models.Card, set *lexicon.Set) []models.Cluster {
	if len(cards) < 2 {
		return []models.Cluster{}
	}
	categories := Categories(set)

	var groups []*group
	byName := make(map[string]*group)
	place := func(name string, card models.Card) {
		g, ok := byName[name]
		if !ok {
			g = &group{name: name}
			byName[name] = g
			groups = append(groups, g)
		}
		g.cards = append(g.cards, card)
	}

	for _, card := range cards {
		if name, ok := categorize(categories, card.Content); ok {
			place(name, card)
			continue
		}
		if g := mostSimilar(groups, card.Content); g != nil {
			g.cards = append(g.cards, card)
			continue
		}
		place(singletonName(card.Content), card)
	}

	out := make([]models.Cluster, 0, len(groups))
	for i, g := range groups {
		ids := make([]string, len(g.cards))
		for j, c := range g.cards {
			ids[j] = c.ID
		}
		out = append(out, models.Cluster{
			ID:      ID(g.name, ids),
			Name:    g.name,
			CardIDs: ids,
			Color:   Palette[i%len(Palette)],
		})
	}
	return out
}

// categorize returns the first category claiming content.
func categorize(categories []Category, content string) (string, bool) {
	lower := strings.ToLower(content)
	for _, c := range categories {
		if c.Matches(lower) {
			return c.Name, true
		}
	}
	return "", false
}

// mostSimilar returns the group holding the card most similar to content, if
// that similarity exceeds the threshold. The first pair reaching the best
// score wins.
func mostSimilar(groups []*group, content string) *group {
	var best *group
	bestScore := SimilarityThreshold
	for _, g := range groups {
		for _, member := range g.cards {
			if s := keyword.Similarity(content, member.Content); s > bestScore {
				bestScore = s
				best = g
			}
		}
	}
	return best
}

func singletonName(content string) string {
	words := keyword.Long.Extract(content)
	if len(words) == 0 {
		return OtherName
	}
	return utils.Capitalize(words[0])
}

// ID derives a stable cluster id from its name and members.
func ID(name string, cardIDs []string) string {
	key := name + "\x00" + strings.Join(cardIDs, "\x00")
	return uuid.NewSHA1(namespace, []byte(key)).String()
}
