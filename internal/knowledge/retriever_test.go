package knowledge

import (
	"context"
	"fmt"
	"testing"
)

// fakeIndex filters in-memory records by category and caps at topK, like the
// real store does server-side.
type fakeIndex struct {
	records   []Record
	failWith  error
	searches  int
	scrolls   int
}

func (f *fakeIndex) Search(ctx context.Context, embedding []float32, category string, topK int) ([]Record, error) {
	f.searches++
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []Record
	for _, rec := range f.records {
		if string(rec.Category) == category {
			out = append(out, rec)
		}
		if len(out) == topK {
			break
		}
	}
	return out, nil
}

func (f *fakeIndex) All(ctx context.Context, category string, limit int) ([]Record, error) {
	f.scrolls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []Record
	for _, rec := range f.records {
		if string(rec.Category) == category {
			out = append(out, rec)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeEmbedder struct {
	calls    int
	failWith error
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return f.EmbedQuery(ctx, text)
}

func (f *fakeEmbedder) EmbedDocumentBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		emb, err := f.EmbedQuery(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		out[i] = emb
	}
	return out, nil
}

func seedRecords() []Record {
	return []Record{
		{ID: "t1", Category: CategoryTeaching, Fields: map[string]string{"topic": "thesis statements"}},
		{ID: "t2", Category: CategoryTeaching, Fields: map[string]string{"topic": "topic sentences"}},
		{ID: "f1", Category: CategoryFeedback, Fields: map[string]string{"diagnose": "subject-verb agreement"}},
		{ID: "m1", Category: CategoryModelling, Fields: map[string]string{"skill": "note taking"}},
		{ID: "m2", Category: CategoryModelling, Fields: map[string]string{"skill": "paraphrasing"}},
		{ID: "m3", Category: CategoryModelling, Fields: map[string]string{"skill": "summarizing"}},
	}
}

func TestQuery_CategoryPurity(t *testing.T) {
	idx := &fakeIndex{records: seedRecords()}
	r := NewRetriever(idx, &fakeEmbedder{})

	for _, category := range []string{"teaching", "feedback", "modelling"} {
		records := r.Query(context.Background(), "how do I improve", category, 10)
		if len(records) == 0 {
			t.Fatalf("expected records for category %q", category)
		}
		for _, rec := range records {
			if string(rec.Category) != category {
				t.Errorf("category %q query returned record of category %q", category, rec.Category)
			}
		}
	}
}

func TestQuery_TopKBound(t *testing.T) {
	idx := &fakeIndex{records: seedRecords()}
	r := NewRetriever(idx, &fakeEmbedder{})

	cases := []struct {
		topK int
		want int
	}{
		{0, 0},  // non-positive: no query issued
		{1, 1},
		{2, 2},
		{3, 3},  // exactly the number of modelling records
		{10, 3}, // capped at matching records
	}
	for _, tc := range cases {
		got := r.Query(context.Background(), "strategies", "modelling", tc.topK)
		if len(got) != tc.want {
			t.Errorf("topK=%d: expected %d records, got %d", tc.topK, tc.want, len(got))
		}
	}
}

func TestQuery_EmptyQuerySkipsEmbedding(t *testing.T) {
	idx := &fakeIndex{records: seedRecords()}
	emb := &fakeEmbedder{}
	r := NewRetriever(idx, emb)

	records := r.Query(context.Background(), "", "teaching", 3)
	if len(records) != 0 {
		t.Errorf("empty query must return no records, got %d", len(records))
	}
	if emb.calls != 0 {
		t.Errorf("empty query must not call the embedder, got %d calls", emb.calls)
	}
	if idx.searches != 0 {
		t.Errorf("empty query must not hit the index, got %d searches", idx.searches)
	}

	// Whitespace counts as empty too
	if got := r.Query(context.Background(), "   \n", "teaching", 3); len(got) != 0 {
		t.Errorf("whitespace query must return no records, got %d", len(got))
	}
}

func TestQuery_DegradedRetriever(t *testing.T) {
	r := NewDegradedRetriever()
	records := r.Query(context.Background(), "anything", "teaching", 3)
	if records == nil || len(records) != 0 {
		t.Errorf("degraded retriever must return empty non-nil slice, got %#v", records)
	}
	if got := r.All(context.Background(), "teaching", 5); len(got) != 0 {
		t.Errorf("degraded All must return empty, got %d", len(got))
	}
}

func TestQuery_EmbedderFailureIsSoft(t *testing.T) {
	idx := &fakeIndex{records: seedRecords()}
	r := NewRetriever(idx, &fakeEmbedder{failWith: fmt.Errorf("embedding service down")})

	records := r.Query(context.Background(), "anything", "teaching", 3)
	if len(records) != 0 {
		t.Errorf("embedder failure must yield empty result, got %d", len(records))
	}
	if idx.searches != 0 {
		t.Errorf("index must not be queried after embed failure")
	}
}

func TestQuery_IndexFailureIsSoft(t *testing.T) {
	idx := &fakeIndex{records: seedRecords(), failWith: fmt.Errorf("connection refused")}
	r := NewRetriever(idx, &fakeEmbedder{})

	records := r.Query(context.Background(), "anything", "teaching", 3)
	if len(records) != 0 {
		t.Errorf("index failure must yield empty result, got %d", len(records))
	}
}

func TestQuery_UnknownCategoryIsSoft(t *testing.T) {
	idx := &fakeIndex{records: seedRecords()}
	r := NewRetriever(idx, &fakeEmbedder{})

	records := r.Query(context.Background(), "anything", "no_such_category", 3)
	if len(records) != 0 {
		t.Errorf("unknown category must yield empty result, got %d", len(records))
	}
}

func TestAll_ReturnsEverythingInCategory(t *testing.T) {
	idx := &fakeIndex{records: seedRecords()}
	r := NewRetriever(idx, &fakeEmbedder{})

	records := r.All(context.Background(), "modelling", 100)
	if len(records) != 3 {
		t.Errorf("expected all 3 modelling records, got %d", len(records))
	}
}
