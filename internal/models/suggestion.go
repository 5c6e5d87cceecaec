package models

import "time"

// SuggestionKind distinguishes where a suggestion came from.
type SuggestionKind string

const (
	// SuggestionKindHistory marks a previously submitted query.
	SuggestionKindHistory SuggestionKind = "history"
	// SuggestionKindGenerated marks a word extracted from the dataset.
	SuggestionKindGenerated SuggestionKind = "generated"
)

// Suggestion is one entry of the suggestion dropdown. Text is lower-cased,
// trimmed, and non-empty for generated suggestions; history suggestions keep
// the casing the query was submitted with.
type Suggestion struct {
	Text     string         `json:"text"`
	Kind     SuggestionKind `json:"kind"`
	Count    int            `json:"count,omitempty"`
	LastUsed time.Time      `json:"last_used,omitempty"`
}

// HistoryEntry is the durable form of a submitted query. Entries are unique
// by text (compared case-insensitively), ordered most-recently-used first,
// and capped by the history store.
type HistoryEntry struct {
	Text     string    `json:"text"`
	Count    int       `json:"count"`
	LastUsed time.Time `json:"last_used"`
}

// Suggestion converts the entry to its dropdown representation.
func (e HistoryEntry) Suggestion() Suggestion {
	return Suggestion{
		Text:     e.Text,
		Kind:     SuggestionKindHistory,
		Count:    e.Count,
		LastUsed: e.LastUsed,
	}
}
