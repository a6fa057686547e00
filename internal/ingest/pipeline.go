package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"

	"rox-tutor/internal/knowledge"
)

// primaryField is where unstructured text lands when a document is ingested
// into a category without explicit metadata.
var primaryField = map[knowledge.Category]string{
	knowledge.CategoryTeaching:    "explanation",
	knowledge.CategoryModelling:   "model_answer",
	knowledge.CategoryFeedback:    "advice",
	knowledge.CategoryScaffolding: "hint",
	knowledge.CategoryCowriting:   "sample_paragraph",
	knowledge.CategoryPedagogy:    "strategy",
}

// ChunkText splits extracted document text into ingestable pieces on
// paragraph boundaries, merging short paragraphs up to maxChars.
func ChunkText(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = 1500
	}
	var chunks []string
	var current strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(para) > maxChars {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// RecordsFromText wraps text chunks as records of the given category, with
// the text under the category's primary metadata field.
func RecordsFromText(category knowledge.Category, source string, chunks []string) []knowledge.Record {
	field, ok := primaryField[category]
	if !ok {
		field = "text"
	}
	records := make([]knowledge.Record, 0, len(chunks))
	for _, chunk := range chunks {
		records = append(records, knowledge.Record{
			Category: category,
			Fields: map[string]string{
				field:    chunk,
				"source": source,
			},
		})
	}
	return records
}

// Writer is the store surface the pipeline needs.
type Writer interface {
	Upsert(ctx context.Context, rec knowledge.Record, embedding []float32) error
}

// Pipeline embeds records in batches and writes them to the vector store.
type Pipeline struct {
	writer    Writer
	embedder  knowledge.Embedder
	batchSize int
}

func NewPipeline(writer Writer, embedder knowledge.Embedder, batchSize int) *Pipeline {
	if batchSize <= 0 {
		batchSize = 32
	}
	return &Pipeline{writer: writer, embedder: embedder, batchSize: batchSize}
}

// Run ingests all records and returns how many were stored. Unlike retrieval
// this path is fail-fast: a broken ingest run should stop, not silently
// produce a half-filled knowledge base.
func (p *Pipeline) Run(ctx context.Context, records []knowledge.Record) (int, error) {
	stored := 0
	for start := 0; start < len(records); start += p.batchSize {
		end := start + p.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		texts := make([]string, 0, len(batch))
		for _, rec := range batch {
			text := knowledge.DocumentText(rec)
			if text == "" {
				return stored, fmt.Errorf("record %d produces no document text", start+len(texts))
			}
			texts = append(texts, text)
		}
		embeddings, err := p.embedder.EmbedDocumentBatch(ctx, texts)
		if err != nil {
			return stored, fmt.Errorf("embedding batch at %d failed: %w", start, err)
		}
		if len(embeddings) != len(batch) {
			return stored, fmt.Errorf("embedder returned %d vectors for %d texts", len(embeddings), len(batch))
		}
		for i, rec := range batch {
			if err := p.writer.Upsert(ctx, rec, embeddings[i]); err != nil {
				return stored, fmt.Errorf("upsert failed at record %d: %w", start+i, err)
			}
			stored++
		}
		log.Printf("[Ingest] stored %d/%d records", stored, len(records))
	}
	return stored, nil
}
