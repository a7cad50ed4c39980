package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/brainboard/internal/models"
)

const (
	summaryInvalidText = "Invalid request format"
	summaryFailedText  = "Unable to generate summary at this time. Please try again."
)

const maxBodyBytes = 4 << 20

// decodeBody reads a JSON object body into v.
func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
}

func (s *Server) handleMood(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content json.RawMessage `json:"content"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.logger.Debug("mood: malformed body", zap.Error(err))
		s.respondJSON(w, http.StatusOK, models.MoodResponse{Mood: models.MoodNeutral})
		return
	}
	var req models.MoodRequest
	if json.Unmarshal(body.Content, &req.Content) != nil || models.Validate(req) != nil {
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid content", "mood": string(models.MoodNeutral)})
		return
	}
	mood, err := s.insights.AnalyzeMood(r.Context(), req.Content)
	if err != nil {
		s.logger.Error("mood analysis failed", zap.Error(err))
		mood = models.MoodNeutral
	}
	s.respondJSON(w, http.StatusOK, models.MoodResponse{Mood: mood})
}

func (s *Server) handleCluster(w http.ResponseWriter, r *http.Request) {
	cards, err := s.decodeCards(r)
	if err != nil {
		s.respondJSON(w, http.StatusOK, map[string]any{"clusters": []models.Cluster{}})
		return
	}
	clusters, err := s.insights.ClusterCards(r.Context(), cards)
	if err != nil {
		s.logger.Error("clustering failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Failed to cluster cards")
		return
	}
	if clusters == nil {
		clusters = []models.Cluster{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"clusters": clusters})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	empty := map[string]any{"results": []models.SearchResult{}}
	var req models.SearchRequest
	if err := decodeBody(r, &req); err != nil || models.Validate(req) != nil {
		s.respondJSON(w, http.StatusOK, empty)
		return
	}
	cards, err := models.DecodeCards(req.Cards)
	if err != nil || len(cards) == 0 || strings.TrimSpace(*req.Query) == "" {
		s.respondJSON(w, http.StatusOK, empty)
		return
	}
	results, err := s.insights.SearchCards(r.Context(), cards, *req.Query)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondJSON(w, http.StatusOK, empty)
		return
	}
	if results == nil {
		results = []models.SearchResult{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	cards, err := s.decodeCards(r)
	if err != nil {
		s.respondJSON(w, http.StatusOK, map[string]any{"suggestions": []string{}})
		return
	}
	suggestions, err := s.insights.GenerateSuggestions(r.Context(), cards)
	if err != nil {
		s.logger.Error("suggestions failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Failed to generate suggestions")
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	cards, err := s.decodeCards(r)
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, models.EmptySummary(summaryInvalidText))
		return
	}
	summary, err := s.insights.SummarizeBoard(r.Context(), cards)
	if err != nil {
		s.logger.Error("summary failed", zap.Error(err))
		s.respondJSON(w, http.StatusInternalServerError, models.EmptySummary(summaryFailedText))
		return
	}
	s.respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "strategy": s.strategy})
}

// decodeCards reads a {cards: [...]} body. Malformed bodies and non-array
// cards both return models.ErrNotArray.
func (s *Server) decodeCards(r *http.Request) ([]models.Card, error) {
	var req models.CardsRequest
	if err := decodeBody(r, &req); err != nil {
		s.logger.Debug("malformed cards body", zap.Error(err))
		return nil, models.ErrNotArray
	}
	return models.DecodeCards(req.Cards)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
