package knowledge

import (
	"sort"
	"strings"
)

// Category partitions the knowledge base by pedagogical function.
type Category string

const (
	CategoryTeaching    Category = "teaching"
	CategoryModelling   Category = "modelling"
	CategoryFeedback    Category = "feedback"
	CategoryScaffolding Category = "scaffolding"
	CategoryCowriting   Category = "cowriting"
	CategoryPedagogy    Category = "pedagogy"
)

// Categories lists every ingestable category.
var Categories = []Category{
	CategoryTeaching,
	CategoryModelling,
	CategoryFeedback,
	CategoryScaffolding,
	CategoryCowriting,
	CategoryPedagogy,
}

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if string(known) == c {
			return true
		}
	}
	return false
}

// Record is one stored knowledge entry. The metadata shape varies per
// category, so Fields stays an opaque string map; identity is the
// autogenerated ID, write-once at ingestion.
type Record struct {
	ID       string            `json:"id"`
	Category Category          `json:"category"`
	Fields   map[string]string `json:"fields"`
	Score    float64           `json:"score,omitempty"` // similarity, set on retrieval
}

// documentFields lists, per category, which metadata fields are concatenated
// into the text blob that gets embedded, and in which order. This is a
// formatting rule, not an algorithm: each category's expert examples keep
// their salient fields up front.
var documentFields = map[Category][]string{
	CategoryTeaching:    {"learning_objective", "topic", "explanation", "example"},
	CategoryModelling:   {"skill", "technique", "think_aloud", "model_answer"},
	CategoryFeedback:    {"diagnose", "error_type", "advice", "example_correction"},
	CategoryScaffolding: {"prompt_type", "hint", "sentence_starter"},
	CategoryCowriting:   {"genre", "strategy", "sample_paragraph"},
	CategoryPedagogy:    {"objective", "strategy", "sequence"},
}

// DocumentText derives the text blob used for embedding a record.
func DocumentText(rec Record) string {
	fields, ok := documentFields[rec.Category]
	if !ok {
		// Unknown category: embed everything we have, field-prefixed
		keys := make([]string, 0, len(rec.Fields))
		for key := range rec.Fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var parts []string
		for _, key := range keys {
			if value := rec.Fields[key]; value != "" {
				parts = append(parts, key+": "+value)
			}
		}
		return strings.Join(parts, "\n")
	}
	var parts []string
	for _, key := range fields {
		if value := rec.Fields[key]; value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, "\n")
}
