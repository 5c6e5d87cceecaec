package suggest

import (
	"reflect"
	"testing"

	"github.com/hyperjump/kensaku/internal/models"
)

func buildGenerator(t *testing.T, values ...string) *Generator {
	t.Helper()
	fields := []models.FieldConfig{{Key: "name"}}
	g := NewGenerator(fields)
	records := make([]any, 0, len(values))
	for _, v := range values {
		records = append(records, map[string]any{"name": v})
	}
	g.Rebuild(records)
	return g
}

func texts(suggestions []models.Suggestion) []string {
	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, s.Text)
	}
	return out
}

func TestGenerator_Generate(t *testing.T) {
	g := buildGenerator(t, "Jonathan Park", "Jon Smith")

	tests := []struct {
		name  string
		query string
		max   int
		want  []string
	}{
		{"prefix completion", "jon", 10, []string{"jonathan"}},
		{"substring match", "ar", 10, []string{"park"}},
		{"exact word excluded", "park", 10, nil},
		{"no candidates", "zzz", 10, nil},
		{"empty query", "", 10, nil},
		{"whitespace query", "   ", 10, nil},
		{"query trimmed and lowered", "  JON ", 10, []string{"jonathan"}},
		{"zero max", "jon", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(g.Generate(tt.query, tt.max))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Generate(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestGenerator_ShortWordsExcluded(t *testing.T) {
	g := buildGenerator(t, "an ox ran far")
	if got := g.Generate("a", 10); len(got) != 2 {
		// "an" and "ox" are too short; "ran" and "far" qualify.
		t.Errorf("expected 2 suggestions, got %v", texts(got))
	}
}

func TestGenerator_Kind(t *testing.T) {
	g := buildGenerator(t, "Jonathan Park")
	for _, s := range g.Generate("jon", 10) {
		if s.Kind != models.SuggestionKindGenerated {
			t.Errorf("Kind = %v, want generated", s.Kind)
		}
	}
}

func TestGenerator_Counts(t *testing.T) {
	g := buildGenerator(t, "park ranger", "Park Place")
	got := g.Generate("par", 10)
	if len(got) != 1 || got[0].Text != "park" {
		t.Fatalf("Generate() = %v, want [park]", texts(got))
	}
	if got[0].Count != 2 {
		t.Errorf("Count = %d, want 2", got[0].Count)
	}
}

func TestGenerator_PrefixBeforeSubstring(t *testing.T) {
	g := buildGenerator(t, "parka sparking")
	got := texts(g.Generate("park", 10))
	want := []string{"parka", "sparking"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Generate() = %v, want %v", got, want)
	}
}

func TestGenerator_CapRespected(t *testing.T) {
	g := buildGenerator(t, "parka parker parked sparking")
	got := g.Generate("park", 2)
	if len(got) != 2 {
		t.Errorf("expected 2 suggestions, got %v", texts(got))
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	g := buildGenerator(t, "parka sparking remark marker")
	first := g.Generate("ark", 10)
	second := g.Generate("ark", 10)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls differ: %v vs %v", texts(first), texts(second))
	}
	if len(first) == 0 {
		t.Error("expected suggestions for substring query")
	}
}

func TestGenerator_RebuildReplacesVocabulary(t *testing.T) {
	fields := []models.FieldConfig{{Key: "name"}}
	g := NewGenerator(fields)
	g.Rebuild([]any{map[string]any{"name": "jonathan"}})
	if got := g.Generate("jon", 10); len(got) != 1 {
		t.Fatalf("expected 1 suggestion before rebuild, got %v", texts(got))
	}
	g.Rebuild([]any{map[string]any{"name": "margaret"}})
	if got := g.Generate("jon", 10); len(got) != 0 {
		t.Errorf("expected no suggestions after rebuild, got %v", texts(got))
	}
}

func TestGenerator_UnsearchableFieldIgnored(t *testing.T) {
	off := false
	g := NewGenerator([]models.FieldConfig{{Key: "name", Searchable: &off}})
	g.Rebuild([]any{map[string]any{"name": "jonathan"}})
	if got := g.Generate("jon", 10); len(got) != 0 {
		t.Errorf("expected no suggestions from unsearchable field, got %v", texts(got))
	}
}
