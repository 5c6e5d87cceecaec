// Package integration exercises the full stack (real SQLite history storage,
// orchestrator, HTTP router).
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/config"
	"github.com/hyperjump/kensaku/internal/history"
	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/search"
	"github.com/hyperjump/kensaku/internal/server"
	"github.com/hyperjump/kensaku/internal/storage"
)

func TestIntegration_SearchAndHistory(t *testing.T) {
	dir := t.TempDir()
	logger := zap.NewNop()

	kv, err := storage.NewSQLiteKV(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()

	hist := history.NewStore(kv, "search-history", 20, logger)
	hist.Load(context.Background())

	dataset := []models.Record{
		{"id": "r1", "name": "Jonathan Park", "contact": map[string]any{"email": "jon.park@example.com"}},
		{"id": "r2", "name": "Mary Jones"},
		{"id": "r3", "name": "Alice Zhang"},
	}
	fields := []models.FieldConfig{
		{Key: "name", Weight: 2},
		{Key: "contact.email", Weight: 1},
	}
	orch := search.NewOrchestrator[models.Record](dataset, fields, hist, nil, search.Options{}, logger)

	srv := server.NewServer(orch, hist,
		&config.ServerConfig{Host: "localhost", Port: 0},
		&config.SearchConfig{DefaultLimit: 10, MaxLimit: 100},
		logger)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	// Search through the full router.
	resp, err := http.Get(ts.URL + "/api/v1/search?q=jon")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status: %d", resp.StatusCode)
	}
	var searchOut models.SearchResponse[models.Record]
	if err := json.NewDecoder(resp.Body).Decode(&searchOut); err != nil {
		t.Fatal(err)
	}
	if searchOut.Total != 2 {
		t.Fatalf("expected 2 results, got %d", searchOut.Total)
	}
	if searchOut.Results[0].Item["name"] != "Jonathan Park" {
		t.Errorf("top result: %v", searchOut.Results[0].Item["name"])
	}

	// Submit records history.
	body, _ := json.Marshal(map[string]string{"query": "jon"})
	resp, err = http.Post(ts.URL+"/api/v1/search/submit", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit status: %d", resp.StatusCode)
	}

	// Suggestions now include the history entry first.
	resp, err = http.Get(ts.URL + "/api/v1/suggest?q=jo")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var suggestOut struct {
		Suggestions []models.Suggestion `json:"suggestions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&suggestOut); err != nil {
		t.Fatal(err)
	}
	if len(suggestOut.Suggestions) == 0 {
		t.Fatal("expected suggestions")
	}
	if suggestOut.Suggestions[0].Kind != models.SuggestionKindHistory || suggestOut.Suggestions[0].Text != "jon" {
		t.Errorf("first suggestion: %+v", suggestOut.Suggestions[0])
	}

	// History survives a process restart (fresh store over the same DB).
	hist2 := history.NewStore(kv, "search-history", 20, logger)
	hist2.Load(context.Background())
	recent := hist2.Recent(-1)
	if len(recent) != 1 || recent[0].Text != "jon" {
		t.Errorf("persisted history: %v", recent)
	}
}
