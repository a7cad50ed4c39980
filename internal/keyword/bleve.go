package keyword

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
)

// SearchOptions optional parameters for keyword search. Nil means use defaults.
type SearchOptions struct {
	// PhraseBoost multiplies the score of cards where the query terms appear
	// together. Use 1.0 for no boost.
	PhraseBoost float64
	// FuzzyEnabled matches terms within Fuzziness edits of a query term.
	FuzzyEnabled bool
	Fuzziness    int
}

// Result is a single keyword search hit.
type Result struct {
	ID    string
	Score float64
}

type cardDoc struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// CardIndex is a BM25 index over one request's cards. It lives in memory and
// is discarded with the request.
type CardIndex struct {
	index bleve.Index
}

// NewCardIndex creates an empty in-memory index.
func NewCardIndex() (*CardIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// standard analyzer: lowercase + tokenize, no stemming
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("id", bleve.NewKeywordFieldMapping())
	im.AddDocumentMapping("card", docMapping)
	im.DefaultType = "card"
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create card index: %w", err)
	}
	return &CardIndex{index: index}, nil
}

// IndexAll indexes every (id, content) pair in one batch.
func (c *CardIndex) IndexAll(ctx context.Context, ids, contents []string) error {
	if len(ids) != len(contents) {
		return fmt.Errorf("ids and contents differ in length: %d != %d", len(ids), len(contents))
	}
	batch := c.index.NewBatch()
	for i := range ids {
		if err := batch.Index(ids[i], cardDoc{ID: ids[i], Content: contents[i]}); err != nil {
			return fmt.Errorf("failed to batch card %s: %w", ids[i], err)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.index.Batch(batch)
}

// Search runs a match query and returns up to limit hits, best first.
func (c *CardIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	phraseBoost := 1.0
	fuzzy := false
	fuzziness := 2
	if opts != nil {
		if opts.PhraseBoost > 0 {
			phraseBoost = opts.PhraseBoost
		}
		fuzzy = opts.FuzzyEnabled
		if opts.Fuzziness > 0 {
			fuzziness = opts.Fuzziness
		}
	}

	var q blevequery.Query
	if fuzzy {
		q = buildFuzzyQuery(query, fuzziness)
	} else {
		mq := bleve.NewMatchQuery(query)
		mq.SetField("content")
		q = mq
	}
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	results, err := c.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("card search failed: %w", err)
	}

	var phrase map[string]bool
	if phraseBoost > 1.0 && len(tokenizeQuery(query)) > 1 {
		phrase = c.findPhraseMatches(ctx, query, limit)
	}

	out := make([]*Result, len(results.Hits))
	for i, hit := range results.Hits {
		score := hit.Score
		if phrase[hit.ID] {
			score *= phraseBoost
		}
		out[i] = &Result{ID: hit.ID, Score: score}
	}
	return out, nil
}

// Close releases the index.
func (c *CardIndex) Close() error {
	return c.index.Close()
}

// tokenizeQuery splits query into lowercase terms.
func tokenizeQuery(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// buildFuzzyQuery ORs a fuzzy query per term.
func buildFuzzyQuery(queryStr string, fuzziness int) blevequery.Query {
	terms := tokenizeQuery(queryStr)
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		fq.SetField("content")
		queries = append(queries, fq)
	}
	return bleve.NewDisjunctionQuery(queries...)
}

func (c *CardIndex) findPhraseMatches(ctx context.Context, query string, size int) map[string]bool {
	matches := make(map[string]bool)
	pq := bleve.NewMatchPhraseQuery(query)
	pq.SetField("content")
	req := bleve.NewSearchRequestOptions(pq, size, 0, false)
	results, err := c.index.SearchInContext(ctx, req)
	if err != nil {
		return matches
	}
	for _, hit := range results.Hits {
		matches[hit.ID] = true
	}
	return matches
}
