// Package history maintains the persisted, recency-ranked query history.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/storage"
)

const (
	// DefaultKey is the logical key the history collection is stored under.
	DefaultKey = "search-history"
	// DefaultMaxItems caps the collection when no cap is configured.
	DefaultMaxItems = 20
)

// Store owns the submitted-query history: an append/dedupe/cap collection
// ordered most-recently-used first, mirrored to the key-value collaborator
// on every mutation. Duplicate detection is case-insensitive; the stored
// text keeps the casing of the most recent submission. Persistence failures
// degrade gracefully: reads fall back to an empty collection and writes are
// best-effort, logged, and not retried.
type Store struct {
	kv       storage.KV
	key      string
	maxItems int
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	entries []models.HistoryEntry
}

// NewStore creates a history store over kv. An empty key falls back to
// DefaultKey and a non-positive maxItems to DefaultMaxItems.
func NewStore(kv storage.KV, key string, maxItems int, logger *zap.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		kv:       kv,
		key:      key,
		maxItems: maxItems,
		logger:   logger,
		now:      time.Now,
	}
}

// Load reads the persisted collection. A missing, corrupt, or unreadable
// value is treated as an empty collection, never as a fatal error.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("history read failed, starting empty",
				zap.String("key", s.key), zap.Error(err))
		}
		return
	}
	var entries []models.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.logger.Warn("history value corrupt, starting empty",
			zap.String("key", s.key), zap.Error(err))
		return
	}
	if len(entries) > s.maxItems {
		entries = entries[:s.maxItems]
	}
	s.entries = entries
}

// Record inserts the trimmed query at the most-recent position, merging any
// existing entry with the same text (its count carries over, incremented),
// truncates to the cap, and persists. A whitespace-only query is a no-op.
func (s *Store) Record(ctx context.Context, query string) {
	text := strings.TrimSpace(query)
	if text == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 1
	for i, e := range s.entries {
		if strings.EqualFold(e.Text, text) {
			count = e.Count + 1
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	entry := models.HistoryEntry{Text: text, Count: count, LastUsed: s.now()}
	s.entries = append([]models.HistoryEntry{entry}, s.entries...)
	if len(s.entries) > s.maxItems {
		s.entries = s.entries[:s.maxItems]
	}
	s.persistLocked(ctx)
}

// Matching returns up to limit entries whose text contains query
// (case-insensitive), preserving stored recency order.
func (s *Store) Matching(query string, limit int) []models.HistoryEntry {
	needle := strings.ToLower(strings.TrimSpace(query))

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.HistoryEntry
	for _, e := range s.entries {
		if limit >= 0 && len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(e.Text), needle) {
			out = append(out, e)
		}
	}
	return out
}

// Recent returns the first limit entries, most-recent first.
func (s *Store) Recent(limit int) []models.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit < 0 || limit > len(s.entries) {
		limit = len(s.entries)
	}
	out := make([]models.HistoryEntry, limit)
	copy(out, s.entries[:limit])
	return out
}

// Clear empties the collection and persists the empty state.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) {
	entries := s.entries
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		s.logger.Warn("history marshal failed", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		s.logger.Warn("history write failed",
			zap.String("key", s.key), zap.Error(err))
	}
}
