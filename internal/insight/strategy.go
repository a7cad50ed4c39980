// Package insight selects and runs the text-intelligence strategy behind every
// board analysis operation.
package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hyperjump/brainboard/internal/models"
)

// Strategy analyzes cards. Implementations must be safe for concurrent use and
// keep all intermediate state request-scoped.
type Strategy interface {
	Name() string
	AnalyzeMood(ctx context.Context, content string) (models.Mood, error)
	ClusterCards(ctx context.Context, cards []models.Card) ([]models.Cluster, error)
	SearchCards(ctx context.Context, cards []models.Card, query string) ([]models.SearchResult, error)
	GenerateSuggestions(ctx context.Context, cards []models.Card) ([]string, error)
	SummarizeBoard(ctx context.Context, cards []models.Card) (models.Summary, error)
}

// Mode names a strategy.
type Mode string

const (
	ModeDeterministic Mode = "deterministic"
	ModeExternal      Mode = "external"
)

// ErrUnknownMode is returned by ParseMode for unrecognized names.
var ErrUnknownMode = errors.New("unknown strategy mode")

// ParseMode parses a mode name. An empty name is deterministic.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeDeterministic:
		return ModeDeterministic, nil
	case ModeExternal:
		return ModeExternal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) String() string {
	return string(m)
}
