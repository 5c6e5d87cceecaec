package search

import (
	"sort"
	"strings"

	"github.com/hyperjump/kensaku/internal/models"
)

// Highlight wraps each matched span of value in pre/post markers. Spans are
// sorted by start, clipped to the value's bounds, and overlapping spans are
// merged before insertion, so the output is well-formed regardless of the
// discovery order the scorer reported them in. Offsets are rune offsets.
func Highlight(value string, spans []models.MatchSpan, pre, post string) string {
	if len(spans) == 0 {
		return value
	}
	runes := []rune(value)

	clipped := make([]models.MatchSpan, 0, len(spans))
	for _, s := range spans {
		if s.Start < 0 {
			s.Start = 0
		}
		if s.End > len(runes) {
			s.End = len(runes)
		}
		if s.Start >= s.End {
			continue
		}
		clipped = append(clipped, s)
	}
	if len(clipped) == 0 {
		return value
	}
	sort.Slice(clipped, func(i, j int) bool { return clipped[i].Start < clipped[j].Start })

	merged := clipped[:1]
	for _, s := range clipped[1:] {
		last := &merged[len(merged)-1]
		if s.Start < last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}

	var b strings.Builder
	prev := 0
	for _, s := range merged {
		b.WriteString(string(runes[prev:s.Start]))
		b.WriteString(pre)
		b.WriteString(string(runes[s.Start:s.End]))
		b.WriteString(post)
		prev = s.End
	}
	b.WriteString(string(runes[prev:]))
	return b.String()
}
