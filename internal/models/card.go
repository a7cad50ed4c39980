// Package models defines the data structures shared by the analysis core, the
// strategies, and the HTTP and MCP edges.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// ErrNotArray is returned when a cards payload is not a JSON array.
var ErrNotArray = errors.New("cards must be an array")

// Card is a unit of free-text content on a board. Only ID and Content are read
// by analysis; the remaining fields are carried through for board clients.
type Card struct {
	ID        string  `json:"id"`
	Content   string  `json:"content"`
	ColumnID  string  `json:"columnId,omitempty"`
	Position  float64 `json:"position,omitempty"`
	Color     string  `json:"color,omitempty"`
	CreatedAt string  `json:"createdAt,omitempty"`
	UserID    string  `json:"userId,omitempty"`
	Mood      Mood    `json:"mood,omitempty"`
}

// Contents returns the content of every card in order.
func Contents(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Content
	}
	return out
}

type wireCard struct {
	ID        json.RawMessage `json:"id"`
	Content   json.RawMessage `json:"content"`
	ColumnID  string          `json:"columnId"`
	Position  float64         `json:"position"`
	Color     string          `json:"color"`
	CreatedAt string          `json:"createdAt"`
	UserID    string          `json:"userId"`
	Mood      string          `json:"mood"`
}

// DecodeCards parses a raw cards payload leniently. A payload that is not an
// array yields ErrNotArray. Elements that are not objects, or whose content is
// not a string, are skipped. Numeric ids are accepted and kept in decimal form.
func DecodeCards(raw json.RawMessage) ([]Card, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, ErrNotArray
	}
	cards := make([]Card, 0, len(elems))
	for i, el := range elems {
		var w wireCard
		if err := json.Unmarshal(el, &w); err != nil {
			continue
		}
		var content string
		if err := json.Unmarshal(w.Content, &content); err != nil {
			continue
		}
		card := Card{
			ID:        decodeID(w.ID, i),
			Content:   content,
			ColumnID:  w.ColumnID,
			Position:  w.Position,
			Color:     w.Color,
			CreatedAt: w.CreatedAt,
			UserID:    w.UserID,
		}
		if m := Mood(w.Mood); m.Valid() {
			card.Mood = m
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// decodeID accepts string or numeric ids; cards without an id are numbered by
// their position in the payload.
func decodeID(raw json.RawMessage, index int) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return strconv.Itoa(index + 1)
}
