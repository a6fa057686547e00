package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"rox-tutor/internal/knowledge"
)

// fileRecord is one entry of a knowledge JSON file.
type fileRecord struct {
	ID       string            `json:"id,omitempty"`
	Category string            `json:"category"`
	Fields   map[string]string `json:"fields"`
}

// ReadJSON loads a knowledge file: a JSON array of records with explicit
// categories and metadata fields. Records with an unknown category or no
// fields are rejected up front, before anything touches the vector store.
func ReadJSON(path string) ([]knowledge.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var entries []fileRecord
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("invalid knowledge file %s: %w", path, err)
	}
	records := make([]knowledge.Record, 0, len(entries))
	for i, entry := range entries {
		if !knowledge.ValidCategory(entry.Category) {
			return nil, fmt.Errorf("%s: record %d has unknown category %q", path, i, entry.Category)
		}
		if len(entry.Fields) == 0 {
			return nil, fmt.Errorf("%s: record %d has no fields", path, i)
		}
		records = append(records, knowledge.Record{
			ID:       entry.ID,
			Category: knowledge.Category(entry.Category),
			Fields:   entry.Fields,
		})
	}
	return records, nil
}
