// Package keyword provides keyword extraction, set similarity, and a BM25
// index over card content.
package keyword

import (
	"regexp"
	"sort"
	"strings"
)

// Extractor tokenizes text into lower-cased keywords. Tokens are dropped when
// they are stop-words or not longer than MinLen.
type Extractor struct {
	Name      string
	MinLen    int
	stopwords map[string]struct{}
	strip     *regexp.Regexp
}

// NewExtractor builds an extractor. Characters matched by strip are replaced
// with spaces before splitting.
func NewExtractor(name string, minLen int, strip *regexp.Regexp, stopwords []string) *Extractor {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[w] = struct{}{}
	}
	return &Extractor{Name: name, MinLen: minLen, stopwords: set, strip: strip}
}

var (
	// Long feeds similarity, clustering, summaries, and suggestions.
	Long = NewExtractor("long", 3, regexp.MustCompile(`[^\w\s]`), []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by", "from",
		"is", "are", "was", "were", "be", "been", "being", "have", "has", "had", "do", "does", "did",
		"will", "would", "should", "could", "can", "may", "might", "must",
		"this", "that", "these", "those", "i", "you", "he", "she", "it", "we", "they",
	})

	// Short feeds search ranking and model-backed cluster labels.
	Short = NewExtractor("short", 2, regexp.MustCompile(`[^a-z0-9\s]`), []string{
		"the", "a", "an", "and", "or", "but", "to", "of", "for", "in", "on", "with", "is", "are", "be",
		"this", "that", "it", "as", "by", "we", "you", "our", "your",
	})
)

// Extract returns keywords in text order. Duplicates are kept.
func (e *Extractor) Extract(text string) []string {
	cleaned := e.strip.ReplaceAllString(strings.ToLower(text), " ")
	words := strings.Fields(cleaned)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) <= e.MinLen {
			continue
		}
		if _, stop := e.stopwords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Set returns the distinct keywords of text.
func (e *Extractor) Set(text string) map[string]struct{} {
	words := e.Extract(text)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Similarity is the Jaccard index of the long-form keyword sets of a and b.
// It is 0 when either side has no keywords.
func Similarity(a, b string) float64 {
	return Jaccard(Long.Set(a), Long.Set(b))
}

// Jaccard returns |a∩b| / |a∪b|, or 0 when either set is empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// Frequency counts keywords across texts. Order holds keywords by first
// occurrence.
type Frequency struct {
	Order  []string
	Counts map[string]int
}

// Count tallies the keywords extracted from every text.
func (e *Extractor) Count(texts ...string) *Frequency {
	f := &Frequency{Counts: make(map[string]int)}
	for _, t := range texts {
		for _, w := range e.Extract(t) {
			if _, seen := f.Counts[w]; !seen {
				f.Order = append(f.Order, w)
			}
			f.Counts[w]++
		}
	}
	return f
}

// Top returns up to n keywords by descending count. Ties keep first-occurrence
// order.
func (f *Frequency) Top(n int) []string {
	ranked := make([]string, len(f.Order))
	copy(ranked, f.Order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return f.Counts[ranked[i]] > f.Counts[ranked[j]]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
