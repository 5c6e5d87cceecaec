package models

// MatchSpan is a half-open rune offset range [Start, End) into a field's
// string value, used to drive highlight rendering.
type MatchSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SearchMatch records where a query matched inside one field of a record.
// Spans are in discovery order; consumers must sort by Start before rendering.
type SearchMatch struct {
	Field string      `json:"field"`
	Value string      `json:"value"`
	Spans []MatchSpan `json:"spans"`
}

// SearchResult is a single scored hit. A result exists only when Score > 0.
type SearchResult[T any] struct {
	Item    T             `json:"item"`
	Score   float64       `json:"score"`
	Matches []SearchMatch `json:"matches"`
}

// SearchResponse is the envelope returned by the HTTP and CLI surfaces.
type SearchResponse[T any] struct {
	Results   []SearchResult[T] `json:"results"`
	Total     int               `json:"total"`
	QueryTime int64             `json:"query_time_ms"`
	Query     string            `json:"query"`
}
