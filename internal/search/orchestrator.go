// Package search coordinates debounced scoring, suggestion generation, and
// query history over an in-memory dataset snapshot.
package search

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/history"
	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/ranking"
	"github.com/hyperjump/kensaku/internal/suggest"
)

const (
	defaultDebounce       = 250 * time.Millisecond
	defaultMaxSuggestions = 8
)

// Listener receives the orchestrator's typed output events. QueryChanged and
// SuggestionsChanged fire on every keystroke; ResultsChanged fires after each
// debounce-settled evaluation (with an empty slice for an empty query).
type Listener[T any] interface {
	QueryChanged(query string)
	SuggestionsChanged(suggestions []models.Suggestion)
	ResultsChanged(results []models.SearchResult[T])
}

// Options configures an Orchestrator.
type Options struct {
	// Debounce is the settle delay between the last keystroke and the
	// ranked-result evaluation. Defaults to 250ms.
	Debounce time.Duration
	// MaxSuggestions caps the combined suggestion list. Defaults to 8.
	MaxSuggestions int
	// Scoring overrides the scoring constants; nil uses the defaults.
	Scoring *ranking.ScoringConfig
}

// Orchestrator owns the current query, the debounce timer, and the dataset
// snapshot, and composes scorer, suggestion generator, and history store
// output for its listener. Scoring runs synchronously once the debounce
// settles; suggestion generation is recomputed on every raw keystroke so the
// dropdown stays responsive while the ranked list is debounced for cost.
type Orchestrator[T any] struct {
	scorer    *ranking.Scorer
	generator *suggest.Generator
	history   *history.Store
	debouncer *Debouncer
	listener  Listener[T]
	logger    *zap.Logger
	maxSugg   int

	mu      sync.Mutex
	dataset []T
	query   string
}

// NewOrchestrator creates an orchestrator over the given dataset snapshot
// and field configuration. hist may be nil when no history is wanted;
// listener may be nil for purely synchronous callers.
func NewOrchestrator[T any](
	dataset []T,
	fields []models.FieldConfig,
	hist *history.Store,
	listener Listener[T],
	opts Options,
	logger *zap.Logger,
) *Orchestrator[T] {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = defaultMaxSuggestions
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	generator := suggest.NewGenerator(fields)
	generator.Rebuild(toAny(dataset))

	return &Orchestrator[T]{
		scorer:    ranking.NewScorer(fields, opts.Scoring),
		generator: generator,
		history:   hist,
		debouncer: NewDebouncer(opts.Debounce),
		listener:  listener,
		logger:    logger,
		maxSugg:   opts.MaxSuggestions,
		dataset:   dataset,
	}
}

// SetQuery updates the raw query on a keystroke: it notifies QueryChanged,
// recomputes suggestions immediately, and re-arms the debounce timer for the
// ranked evaluation. Every call restarts the timer; there is no leading-edge
// evaluation.
func (o *Orchestrator[T]) SetQuery(query string) {
	o.mu.Lock()
	o.query = query
	o.mu.Unlock()

	if o.listener != nil {
		o.listener.QueryChanged(query)
		o.listener.SuggestionsChanged(o.Suggestions(query))
	}
	o.debouncer.Trigger(o.evaluate)
}

// Submit records the query to history, closes the suggestion dropdown, and
// forces an immediate evaluation instead of waiting out the debounce.
func (o *Orchestrator[T]) Submit(ctx context.Context, query string) {
	if o.history != nil {
		o.history.Record(ctx, query)
	}

	o.debouncer.Cancel()
	o.mu.Lock()
	o.query = query
	o.mu.Unlock()

	if o.listener != nil {
		o.listener.SuggestionsChanged(nil)
	}
	o.evaluate()
}

// Clear resets the query, cancels any pending evaluation, and emits an empty
// result set.
func (o *Orchestrator[T]) Clear() {
	o.debouncer.Cancel()
	o.mu.Lock()
	o.query = ""
	o.mu.Unlock()

	if o.listener != nil {
		o.listener.QueryChanged("")
		o.listener.SuggestionsChanged(nil)
		o.listener.ResultsChanged([]models.SearchResult[T]{})
	}
}

// Query returns the current raw query.
func (o *Orchestrator[T]) Query() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.query
}

// SetDataset replaces the dataset snapshot and rebuilds the suggestion
// vocabulary. The next evaluation observes the new snapshot.
func (o *Orchestrator[T]) SetDataset(dataset []T) {
	o.mu.Lock()
	o.dataset = dataset
	o.mu.Unlock()
	o.generator.Rebuild(toAny(dataset))
}

// Search scores the full dataset against query synchronously, bypassing the
// debounce. Results carry score > 0 only, ordered by score descending with
// ties keeping dataset order.
func (o *Orchestrator[T]) Search(query string) []models.SearchResult[T] {
	o.mu.Lock()
	dataset := o.dataset
	o.mu.Unlock()
	return o.score(query, dataset)
}

// Suggestions returns the combined dropdown list for query: history matches
// first (stored recency order), then generated dataset words, deduplicated
// case-insensitively and capped at MaxSuggestions. An empty query returns
// recent history only.
func (o *Orchestrator[T]) Suggestions(query string) []models.Suggestion {
	var out []models.Suggestion
	seen := make(map[string]bool)

	if o.history != nil {
		for _, e := range o.history.Matching(query, o.maxSugg) {
			out = append(out, e.Suggestion())
			seen[strings.ToLower(e.Text)] = true
		}
	}
	if strings.TrimSpace(query) == "" {
		return out
	}
	for _, s := range o.generator.Generate(query, o.maxSugg) {
		if len(out) >= o.maxSugg {
			break
		}
		if seen[s.Text] {
			continue
		}
		out = append(out, s)
	}
	if len(out) > o.maxSugg {
		out = out[:o.maxSugg]
	}
	return out
}

// evaluate runs the debounce-settled pass: an empty query short-circuits to
// an empty result set without scanning the dataset.
func (o *Orchestrator[T]) evaluate() {
	o.mu.Lock()
	query := o.query
	dataset := o.dataset
	o.mu.Unlock()

	results := o.score(query, dataset)
	if o.listener != nil {
		o.listener.ResultsChanged(results)
	}
}

func (o *Orchestrator[T]) score(query string, dataset []T) []models.SearchResult[T] {
	results := []models.SearchResult[T]{}
	tokens := ranking.Tokenize(query)
	if len(tokens) == 0 {
		return results
	}

	for _, item := range dataset {
		score, matches := o.scorer.Score(item, tokens)
		if score > 0 {
			results = append(results, models.SearchResult[T]{
				Item:    item,
				Score:   score,
				Matches: matches,
			})
		}
	}
	// Stable sort keeps dataset order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func toAny[T any](dataset []T) []any {
	out := make([]any, len(dataset))
	for i, item := range dataset {
		out[i] = item
	}
	return out
}
