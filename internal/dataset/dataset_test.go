package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeDataset(t, `[
		{"id": "r1", "name": "Jonathan Park"},
		{"name": "Jon Smith", "contact": {"email": "jon@example.com"}}
	]`)

	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["id"] != "r1" {
		t.Errorf("existing id overwritten: %v", records[0]["id"])
	}
	id, ok := records[1]["id"].(string)
	if !ok || id == "" {
		t.Errorf("expected generated id, got %v", records[1]["id"])
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		path := writeDataset(t, `{not json`)
		if _, err := Load(path); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})

	t.Run("object instead of array", func(t *testing.T) {
		path := writeDataset(t, `{"name": "x"}`)
		if _, err := Load(path); err == nil {
			t.Error("expected error for non-array dataset")
		}
	})
}

func TestLoad_EmptyArray(t *testing.T) {
	path := writeDataset(t, `[]`)
	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty dataset, got %d records", len(records))
	}
}
