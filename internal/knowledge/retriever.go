package knowledge

import (
	"context"
	"log"
	"strings"
)

// vectorIndex is what the retriever needs from the store. Narrowed to an
// interface so retrieval semantics are testable without a Qdrant instance.
type vectorIndex interface {
	Search(ctx context.Context, embedding []float32, category string, topK int) ([]Record, error)
	All(ctx context.Context, category string, limit int) ([]Record, error)
}

// Retriever is the semantic lookup every pedagogical node grounds on.
// The index and embedder are process-wide, read-mostly singletons; when
// either failed to initialize the retriever runs degraded and every call
// logs and returns an empty slice. Nothing here ever returns an error to
// the caller: upstream failures, malformed categories and missing indexes
// are all treated the same way.
type Retriever struct {
	index    vectorIndex
	embedder Embedder
}

func NewRetriever(index vectorIndex, embedder Embedder) *Retriever {
	return &Retriever{index: index, embedder: embedder}
}

// NewDegradedRetriever returns a retriever whose every call yields [].
// Used when the vector store could not be initialized at startup.
func NewDegradedRetriever() *Retriever {
	return &Retriever{}
}

// Query returns up to topK records of the category, ordered by descending
// similarity to the query string. An empty query short-circuits to an empty
// result without touching the embedder; callers that want "everything in the
// category" must say so explicitly via All.
func (r *Retriever) Query(ctx context.Context, queryString string, category string, topK int) []Record {
	if strings.TrimSpace(queryString) == "" {
		return []Record{}
	}
	if topK <= 0 {
		return []Record{}
	}
	if r.index == nil || r.embedder == nil {
		log.Printf("[Retriever] Knowledge base unavailable, returning no documents for category %q", category)
		return []Record{}
	}

	embedding, err := r.embedder.EmbedQuery(ctx, queryString)
	if err != nil {
		log.Printf("[Retriever] Query embedding failed for category %q: %v", category, err)
		return []Record{}
	}

	records, err := r.index.Search(ctx, embedding, category, topK)
	if err != nil {
		log.Printf("[Retriever] Knowledge base query failed for category %q: %v", category, err)
		return []Record{}
	}

	log.Printf("[Retriever] Retrieved %d documents for category %q", len(records), category)
	return records
}

// All returns up to limit records of a category with no similarity ranking.
func (r *Retriever) All(ctx context.Context, category string, limit int) []Record {
	if limit <= 0 {
		return []Record{}
	}
	if r.index == nil {
		log.Printf("[Retriever] Knowledge base unavailable, returning no documents for category %q", category)
		return []Record{}
	}
	records, err := r.index.All(ctx, category, limit)
	if err != nil {
		log.Printf("[Retriever] Knowledge base scroll failed for category %q: %v", category, err)
		return []Record{}
	}
	return records
}
