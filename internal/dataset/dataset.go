// Package dataset loads record datasets from JSON files.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/hyperjump/kensaku/internal/models"
)

// Load reads a JSON array of records from path. Records without an "id"
// field are assigned a generated one so callers can address results stably.
func Load(path string) ([]models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	for _, record := range records {
		if _, ok := record["id"]; !ok {
			record["id"] = uuid.NewString()
		}
	}
	return records, nil
}
