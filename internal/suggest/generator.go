// Package suggest derives query completions from the dataset's vocabulary.
package suggest

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/resolve"
)

// minWordLength is the exclusive lower bound on suggestible word length.
const minWordLength = 2

// errEnough aborts a trie visit once the suggestion cap is reached.
var errEnough = errors.New("enough suggestions")

// Generator extracts completion candidates from searchable field values.
// The vocabulary is rebuilt per dataset snapshot: every whitespace-delimited,
// lower-cased word longer than two runes is held in a patricia trie with its
// occurrence count, plus a side list preserving first-discovered order.
type Generator struct {
	fields []models.FieldConfig

	mu    sync.RWMutex
	trie  *patricia.Trie
	words []string
}

// NewGenerator creates a generator with an empty vocabulary.
func NewGenerator(fields []models.FieldConfig) *Generator {
	return &Generator{
		fields: fields,
		trie:   patricia.NewTrie(),
	}
}

// Rebuild replaces the vocabulary with the words of the given records.
func (g *Generator) Rebuild(records []any) {
	trie := patricia.NewTrie()
	var words []string

	for _, record := range records {
		for i := range g.fields {
			field := &g.fields[i]
			if !field.IsSearchable() {
				continue
			}
			value, ok := resolve.ResolveString(record, field.Key)
			if !ok {
				continue
			}
			for _, word := range strings.Fields(strings.ToLower(value)) {
				if utf8.RuneCountInString(word) <= minWordLength {
					continue
				}
				prefix := patricia.Prefix(word)
				if item := trie.Get(prefix); item != nil {
					trie.Set(prefix, item.(int)+1)
				} else {
					trie.Insert(prefix, 1)
					words = append(words, word)
				}
			}
		}
	}

	g.mu.Lock()
	g.trie = trie
	g.words = words
	g.mu.Unlock()
}

// Generate returns up to max suggestions whose word contains the lower-cased,
// trimmed query as a substring and is not the query itself. Prefix
// completions come first (lexicographic trie order), then the remaining
// substring matches in first-discovered order; the sequence is deterministic
// for a fixed vocabulary. An empty or whitespace-only query yields nil.
func (g *Generator) Generate(query string, max int) []models.Suggestion {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || max <= 0 {
		return nil
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []models.Suggestion
	seen := make(map[string]bool)

	err := g.trie.VisitSubtree(patricia.Prefix(q), func(p patricia.Prefix, item patricia.Item) error {
		word := string(p)
		if word == q {
			return nil
		}
		out = append(out, suggestion(word, item))
		seen[word] = true
		if len(out) >= max {
			return errEnough
		}
		return nil
	})
	if err != nil && !errors.Is(err, errEnough) {
		return out
	}

	for _, word := range g.words {
		if len(out) >= max {
			break
		}
		if seen[word] || word == q || !strings.Contains(word, q) {
			continue
		}
		out = append(out, suggestion(word, g.trie.Get(patricia.Prefix(word))))
	}
	return out
}

func suggestion(word string, item patricia.Item) models.Suggestion {
	count := 0
	if n, ok := item.(int); ok {
		count = n
	}
	return models.Suggestion{
		Text:  word,
		Kind:  models.SuggestionKindGenerated,
		Count: count,
	}
}
