// Package ranking scores records against tokenized queries across weighted
// fields and reports the match spans that drive highlighting.
package ranking

import (
	"strings"
	"unicode"

	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/resolve"
)

// Scorer computes match scores for single records. It is stateless across
// records; scores are only comparable within one query evaluation.
type Scorer struct {
	config *ScoringConfig
	fields []models.FieldConfig
}

// NewScorer creates a scorer over the given field configuration.
func NewScorer(fields []models.FieldConfig, config *ScoringConfig) *Scorer {
	if config == nil {
		config = DefaultScoringConfig()
	}
	config.ApplyDefaults()
	return &Scorer{config: config, fields: fields}
}

// Tokenize splits a raw query into lower-cased, whitespace-separated,
// non-empty tokens.
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Score computes the total score and per-field matches for one record.
// An empty token list scores 0. Only searchable fields with a resolvable
// scalar value participate; a SearchMatch is emitted per field whose score
// is strictly positive, with spans in discovery order.
func (s *Scorer) Score(record any, tokens []string) (float64, []models.SearchMatch) {
	if len(tokens) == 0 {
		return 0, nil
	}

	var total float64
	var matches []models.SearchMatch

	for i := range s.fields {
		field := &s.fields[i]
		if !field.IsSearchable() {
			continue
		}
		value, ok := resolve.ResolveString(record, field.Key)
		if !ok {
			continue
		}

		fieldScore, spans := s.scoreValue(value, tokens, field.EffectiveWeight())
		if fieldScore > 0 {
			total += fieldScore
			matches = append(matches, models.SearchMatch{
				Field: field.Key,
				Value: value,
				Spans: spans,
			})
		}
	}
	return total, matches
}

// scoreValue scores all tokens against one field value. Offsets are rune
// offsets; lower-casing is done rune-by-rune so spans stay aligned with the
// original value.
func (s *Scorer) scoreValue(value string, tokens []string, weight float64) (float64, []models.MatchSpan) {
	lower := lowerRunes(value)
	var score float64
	var spans []models.MatchSpan

	for _, token := range tokens {
		tok := []rune(token)
		if len(tok) == 0 {
			continue
		}

		if idx := runeIndex(lower, tok); idx >= 0 {
			contribution := s.config.SubstringScore * weight
			if idx == 0 {
				contribution += s.config.PrefixBonus * weight
			}
			if idx == 0 || lower[idx-1] == ' ' {
				contribution += s.config.WordBoundaryBonus * weight
			}
			score += contribution
			spans = append(spans, models.MatchSpan{Start: idx, End: idx + len(tok)})
			continue
		}

		// In-order partial character fallback. The search position resets
		// for every token and advances past each found character, never
		// revisiting earlier positions within the token.
		found := 0
		pos := 0
		for _, r := range tok {
			j := indexRuneFrom(lower, r, pos)
			if j < 0 {
				continue
			}
			found++
			spans = append(spans, models.MatchSpan{Start: j, End: j + 1})
			pos = j + 1
		}
		if found > 0 {
			score += float64(found) / float64(len(tok)) * s.config.PartialMatchScale * weight
		}
	}
	return score, spans
}

// lowerRunes lower-cases rune-by-rune, preserving one rune per position.
func lowerRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

// runeIndex returns the rune offset of the first occurrence of needle in
// haystack, or -1.
func runeIndex(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// indexRuneFrom returns the offset of the first occurrence of r in haystack
// at or after from, or -1.
func indexRuneFrom(haystack []rune, r rune, from int) int {
	for i := from; i < len(haystack); i++ {
		if haystack[i] == r {
			return i
		}
	}
	return -1
}
