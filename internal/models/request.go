package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MoodRequest is the body of a mood analysis request.
type MoodRequest struct {
	Content string `json:"content" validate:"required"`
}

// CardsRequest is the body of cluster, suggestion, and summary requests.
type CardsRequest struct {
	Cards json.RawMessage `json:"cards"`
}

// SearchRequest is the body of a search request.
type SearchRequest struct {
	Cards json.RawMessage `json:"cards"`
	Query *string         `json:"query" validate:"required"`
}

// MoodResponse carries a single mood label.
type MoodResponse struct {
	Mood Mood `json:"mood" validate:"required,oneof=positive neutral negative"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field names in errors use json tags.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate runs struct-tag validation on v.
func Validate(v any) error {
	return Validator().Struct(v)
}
