package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// Vector size of gemini-embedding-001 output
const embeddingDim = 768

// Store handles all vector database operations for the knowledge base.
// It is initialized once at startup and read-only afterwards; ingestion is
// a separate offline batch process (cmd/ingest).
type Store struct {
	client     *qdrant.Client
	collection string
}

// NewStore creates a new store instance and ensures the collection exists.
func NewStore(qdrantURL string, collectionName string, apiKey string) (*Store, error) {
	// Strip http:// or https:// prefix and any port
	qdrantURL = strings.TrimPrefix(qdrantURL, "http://")
	qdrantURL = strings.TrimPrefix(qdrantURL, "https://")

	host := qdrantURL
	if idx := strings.Index(qdrantURL, ":"); idx != -1 {
		host = qdrantURL[:idx]
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   6334, // gRPC port
		APIKey: apiKey,
		UseTLS: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	s := &Store{
		client:     client,
		collection: collectionName,
	}

	if err := s.ensureCollection(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure collection: %w", err)
	}

	return s, nil
}

// ensureCollection creates the collection if it doesn't exist
func (s *Store) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     embeddingDim,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	// Every retrieval filters on category, so index it
	fieldType := qdrant.FieldType(qdrant.PayloadSchemaType_Keyword)
	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collection,
		FieldName:      "category",
		FieldType:      &fieldType,
		Wait:           boolPtr(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create category index: %w", err)
	}

	return nil
}

// Upsert stores one embedded record.
func (s *Store) Upsert(ctx context.Context, rec Record, embedding []float32) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if !ValidCategory(string(rec.Category)) {
		return fmt.Errorf("unknown category %q", rec.Category)
	}

	fieldValues := make(map[string]*qdrant.Value, len(rec.Fields))
	for key, value := range rec.Fields {
		fieldValues[key] = qdrant.NewValueString(value)
	}

	payload := map[string]*qdrant.Value{
		"record_id": qdrant.NewValueString(rec.ID),
		"category":  qdrant.NewValueString(string(rec.Category)),
		"fields":    {Kind: &qdrant.Value_StructValue{StructValue: &qdrant.Struct{Fields: fieldValues}}},
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(rec.ID),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: payload,
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         []*qdrant.PointStruct{point},
	})
	return err
}

// Search performs a category-filtered nearest-neighbor query.
func (s *Store) Search(ctx context.Context, embedding []float32, category string, topK int) ([]Record, error) {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("category", category),
		},
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(embedding...),
		Filter:         filter,
		Limit:          uint64Ptr(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	records := make([]Record, 0, len(points))
	for _, point := range points {
		rec := recordFromPayload(point.Payload)
		rec.Score = float64(point.Score)
		records = append(records, rec)
	}
	return records, nil
}

// All returns up to limit records of a category without a similarity query.
// This is the explicit "match everything" entry point.
func (s *Store) All(ctx context.Context, category string, limit int) ([]Record, error) {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("category", category),
		},
	}

	points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: s.collection,
		Filter:         filter,
		Limit:          uint32Ptr(uint32(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("scroll failed: %w", err)
	}

	records := make([]Record, 0, len(points))
	for _, point := range points {
		records = append(records, recordFromPayload(point.Payload))
	}
	return records, nil
}

// Count reports how many records a category holds.
func (s *Store) Count(ctx context.Context, category string) (uint64, error) {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("category", category),
		},
	}
	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Filter:         filter,
	})
	if err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	return count, nil
}

func recordFromPayload(payload map[string]*qdrant.Value) Record {
	rec := Record{
		ID:       payload["record_id"].GetStringValue(),
		Category: Category(payload["category"].GetStringValue()),
		Fields:   map[string]string{},
	}
	if fieldsValue, ok := payload["fields"]; ok {
		if structValue := fieldsValue.GetStructValue(); structValue != nil {
			for key, value := range structValue.Fields {
				rec.Fields[key] = value.GetStringValue()
			}
		}
	}
	return rec
}

func boolPtr(b bool) *bool       { return &b }
func uint32Ptr(v uint32) *uint32 { return &v }
func uint64Ptr(v uint64) *uint64 { return &v }
