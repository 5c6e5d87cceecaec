package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/models"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := s.parseLimit(r.URL.Query().Get("limit"))
	s.logger.Debug("search request", zap.String("query", query), zap.Int("limit", limit))

	start := time.Now()
	results := s.orchestrator.Search(query)
	total := len(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	s.respondJSON(w, http.StatusOK, models.SearchResponse[models.Record]{
		Results:   results,
		Total:     total,
		QueryTime: time.Since(start).Milliseconds(),
		Query:     query,
	})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	s.logger.Debug("suggest request", zap.String("query", query))
	suggestions := s.orchestrator.Suggestions(query)
	if suggestions == nil {
		suggestions = []models.Suggestion{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":       query,
		"suggestions": suggestions,
	})
}

type submitRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	s.logger.Debug("submit request", zap.String("query", req.Query))

	start := time.Now()
	if s.history != nil {
		s.history.Record(r.Context(), req.Query)
	}
	results := s.orchestrator.Search(req.Query)
	s.respondJSON(w, http.StatusOK, models.SearchResponse[models.Record]{
		Results:   results,
		Total:     len(results),
		QueryTime: time.Since(start).Milliseconds(),
		Query:     req.Query,
	})
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.respondError(w, http.StatusNotImplemented, "history not enabled")
		return
	}
	entries := s.history.Recent(-1)
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}

func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.respondError(w, http.StatusNotImplemented, "history not enabled")
		return
	}
	s.history.Clear(r.Context())
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseLimit clamps the requested result limit to the configured maximum.
// Missing or malformed values fall back to the default limit.
func (s *Server) parseLimit(raw string) int {
	limit := s.searchCfg.DefaultLimit
	if raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if s.searchCfg.MaxLimit > 0 && limit > s.searchCfg.MaxLimit {
		limit = s.searchCfg.MaxLimit
	}
	return limit
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
