package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/config"
	"github.com/hyperjump/kensaku/internal/history"
	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/search"
	"github.com/hyperjump/kensaku/internal/storage"
)

func newTestServer(t *testing.T, withHistory bool) *Server {
	t.Helper()
	dataset := []models.Record{
		{"id": "r1", "name": "Jonathan Park", "contact": map[string]any{"email": "jon.park@example.com"}},
		{"id": "r2", "name": "Mary Jones"},
		{"id": "r3", "name": "Alice Zhang"},
	}
	fields := []models.FieldConfig{
		{Key: "name", Weight: 2},
		{Key: "contact.email", Weight: 1},
	}
	logger := zap.NewNop()

	var hist *history.Store
	if withHistory {
		hist = history.NewStore(storage.NewMemoryKV(), "search-history", 20, logger)
		hist.Load(context.Background())
	}
	orch := search.NewOrchestrator[models.Record](dataset, fields, hist, nil, search.Options{}, logger)
	return NewServer(orch, hist,
		&config.ServerConfig{Host: "localhost", Port: 8080},
		&config.SearchConfig{DefaultLimit: 10, MaxLimit: 100},
		logger)
}

func TestHandleSearch(t *testing.T) {
	srv := newTestServer(t, false)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=jon", nil)
	w := httptest.NewRecorder()
	srv.handleSearch(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var out models.SearchResponse[models.Record]
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Query != "jon" {
		t.Errorf("query: got %q", out.Query)
	}
	if out.Total != 2 || len(out.Results) != 2 {
		t.Fatalf("expected 2 results, got total=%d len=%d", out.Total, len(out.Results))
	}
	if out.Results[0].Item["name"] != "Jonathan Park" {
		t.Errorf("top result: got %v", out.Results[0].Item["name"])
	}
	if out.Results[0].Score <= out.Results[1].Score {
		t.Errorf("results not descending: %v vs %v", out.Results[0].Score, out.Results[1].Score)
	}
}

func TestHandleSearch_Limit(t *testing.T) {
	srv := newTestServer(t, false)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=jon&limit=1", nil)
	w := httptest.NewRecorder()
	srv.handleSearch(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out models.SearchResponse[models.Record]
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Total != 2 {
		t.Errorf("total should count all hits, got %d", out.Total)
	}
	if len(out.Results) != 1 {
		t.Errorf("expected results truncated to 1, got %d", len(out.Results))
	}
}

func TestHandleSearch_EmptyQuery(t *testing.T) {
	srv := newTestServer(t, false)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	w := httptest.NewRecorder()
	srv.handleSearch(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out models.SearchResponse[models.Record]
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Total != 0 || len(out.Results) != 0 {
		t.Errorf("expected no results for empty query, got %+v", out)
	}
}

func TestHandleSuggest(t *testing.T) {
	srv := newTestServer(t, false)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/suggest?q=jo", nil)
	w := httptest.NewRecorder()
	srv.handleSuggest(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out struct {
		Query       string              `json:"query"`
		Suggestions []models.Suggestion `json:"suggestions"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Suggestions) == 0 {
		t.Fatal("expected suggestions for 'jo'")
	}
	found := false
	for _, s := range out.Suggestions {
		if s.Text == "jonathan" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'jonathan' in suggestions, got %v", out.Suggestions)
	}
}

func TestHandleSubmit_RecordsHistory(t *testing.T) {
	srv := newTestServer(t, true)

	body, _ := json.Marshal(map[string]string{"query": "jon"})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/search/submit", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.handleSubmit(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var out models.SearchResponse[models.Record]
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Total != 2 {
		t.Errorf("total: got %d, want 2", out.Total)
	}

	recent := srv.history.Recent(-1)
	if len(recent) != 1 || recent[0].Text != "jon" {
		t.Errorf("history after submit: %v", recent)
	}
}

func TestHandleSubmit_BadRequest(t *testing.T) {
	srv := newTestServer(t, true)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{not json"},
		{"missing query", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/v1/search/submit", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()
			srv.handleSubmit(w, r)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", w.Code)
			}
		})
	}
}

func TestHandleHistory(t *testing.T) {
	srv := newTestServer(t, true)
	srv.history.Record(context.Background(), "alpha")
	srv.history.Record(context.Background(), "beta")

	r := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	w := httptest.NewRecorder()
	srv.handleHistoryList(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out struct {
		History []models.HistoryEntry `json:"history"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.History) != 2 || out.History[0].Text != "beta" {
		t.Errorf("history: got %v", out.History)
	}

	r = httptest.NewRequest(http.MethodDelete, "/api/v1/history", nil)
	w = httptest.NewRecorder()
	srv.handleHistoryClear(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("clear status: got %d", w.Code)
	}
	if len(srv.history.Recent(-1)) != 0 {
		t.Error("history not cleared")
	}
}

func TestHandleHistory_NotEnabled(t *testing.T) {
	srv := newTestServer(t, false)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	w := httptest.NewRecorder()
	srv.handleHistoryList(w, r)
	if w.Code != http.StatusNotImplemented {
		t.Errorf("list status: got %d, want 501", w.Code)
	}

	r = httptest.NewRequest(http.MethodDelete, "/api/v1/history", nil)
	w = httptest.NewRecorder()
	srv.handleHistoryClear(w, r)
	if w.Code != http.StatusNotImplemented {
		t.Errorf("clear status: got %d, want 501", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, false)

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.handleHealth(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("status: got %d", w.Code)
	}
}

func TestParseLimit(t *testing.T) {
	srv := newTestServer(t, false)

	tests := []struct {
		raw  string
		want int
	}{
		{"", 10},
		{"5", 5},
		{"0", 10},
		{"-3", 10},
		{"abc", 10},
		{"500", 100},
	}
	for _, tt := range tests {
		if got := srv.parseLimit(tt.raw); got != tt.want {
			t.Errorf("parseLimit(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}
