package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/hyperjump/brainboard/internal/models"
)

// extractJSON accepts a card array or an object with a cards array.
func extractJSON(content []byte) ([]models.Card, error) {
	raw := json.RawMessage(bytes.TrimSpace(content))
	if len(raw) > 0 && raw[0] == '{' {
		var wrapper models.CardsRequest
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, fmt.Errorf("decode cards: %w", err)
		}
		raw = wrapper.Cards
	}
	cards, err := models.DecodeCards(raw)
	if err != nil {
		return nil, fmt.Errorf("decode cards: %w", err)
	}
	return cards, nil
}
