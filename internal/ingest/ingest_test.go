package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rox-tutor/internal/knowledge"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestReadJSON_Valid(t *testing.T) {
	path := writeTempFile(t, "records.json", `[
		{"category": "teaching", "fields": {"topic": "conditionals", "explanation": "If-clauses describe..."}},
		{"id": "fb-1", "category": "feedback", "fields": {"diagnose": "run-on sentence", "advice": "split it"}}
	]`)
	records, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Category != knowledge.CategoryTeaching {
		t.Errorf("category = %q", records[0].Category)
	}
	if records[1].ID != "fb-1" {
		t.Errorf("explicit id not kept: %q", records[1].ID)
	}
}

func TestReadJSON_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown category": `[{"category": "astrology", "fields": {"x": "y"}}]`,
		"no fields":        `[{"category": "teaching", "fields": {}}]`,
		"not an array":     `{"category": "teaching"}`,
	}
	for name, content := range cases {
		path := writeTempFile(t, "bad.json", content)
		if _, err := ReadJSON(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestExtractHTML_StripsBoilerplate(t *testing.T) {
	html := `<html><head><title>Thesis Statements</title>
		<script>alert("x")</script></head>
		<body><nav>Home | About | Contact</nav>
		<article><h1>Writing a Thesis Statement</h1>
		<p>A thesis statement tells the reader what your essay will argue.
		It appears at the end of the introduction and makes a specific claim
		that the body paragraphs will support with evidence.</p>
		<p>Weak thesis statements state facts; strong ones take a position
		that a reasonable person could dispute, which gives the essay a
		purpose and keeps every paragraph accountable to one idea.</p>
		</article><footer>Copyright 2026</footer></body></html>`
	text, err := ExtractHTML(strings.NewReader(html), "https://example.com/thesis")
	if err != nil {
		t.Fatalf("ExtractHTML failed: %v", err)
	}
	if !strings.Contains(text, "thesis statement tells the reader") {
		t.Errorf("main content missing: %q", text)
	}
	if strings.Contains(text, "alert(") || strings.Contains(text, "Home | About") {
		t.Errorf("boilerplate leaked into extraction: %q", text)
	}
}

func TestChunkText(t *testing.T) {
	text := strings.Repeat("First paragraph about writing.\n\n", 3) +
		strings.Repeat("x", 2000) + "\n\nshort tail"
	chunks := ChunkText(text, 1500)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}
	for i, chunk := range chunks[:len(chunks)-1] {
		if chunk == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestRecordsFromText_UsesPrimaryField(t *testing.T) {
	records := RecordsFromText(knowledge.CategoryTeaching, "lesson.pdf", []string{"chunk one"})
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	if records[0].Fields["explanation"] != "chunk one" {
		t.Errorf("fields = %+v", records[0].Fields)
	}
	if records[0].Fields["source"] != "lesson.pdf" {
		t.Errorf("source not recorded: %+v", records[0].Fields)
	}
	if text := knowledge.DocumentText(records[0]); !strings.Contains(text, "chunk one") {
		t.Errorf("record does not embed its chunk: %q", text)
	}
}

type memoryWriter struct {
	stored  []knowledge.Record
	failAt  int
	upserts int
}

func (m *memoryWriter) Upsert(_ context.Context, rec knowledge.Record, _ []float32) error {
	m.upserts++
	if m.failAt > 0 && m.upserts >= m.failAt {
		return fmt.Errorf("store unavailable")
	}
	m.stored = append(m.stored, rec)
	return nil
}

type staticEmbedder struct {
	batches int
}

func (s *staticEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (s *staticEmbedder) EmbedDocument(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (s *staticEmbedder) EmbedDocumentBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.batches++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func TestPipeline_RunBatches(t *testing.T) {
	writer := &memoryWriter{}
	embedder := &staticEmbedder{}
	pipeline := NewPipeline(writer, embedder, 2)

	var records []knowledge.Record
	for i := 0; i < 5; i++ {
		records = append(records, knowledge.Record{
			Category: knowledge.CategoryTeaching,
			Fields:   map[string]string{"explanation": fmt.Sprintf("chunk %d", i)},
		})
	}
	stored, err := pipeline.Run(context.Background(), records)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stored != 5 || len(writer.stored) != 5 {
		t.Errorf("stored = %d, writer has %d", stored, len(writer.stored))
	}
	if embedder.batches != 3 {
		t.Errorf("batches = %d, want 3", embedder.batches)
	}
}

func TestPipeline_StopsOnStoreFailure(t *testing.T) {
	writer := &memoryWriter{failAt: 3}
	pipeline := NewPipeline(writer, &staticEmbedder{}, 10)

	var records []knowledge.Record
	for i := 0; i < 5; i++ {
		records = append(records, knowledge.Record{
			Category: knowledge.CategoryTeaching,
			Fields:   map[string]string{"explanation": fmt.Sprintf("chunk %d", i)},
		})
	}
	stored, err := pipeline.Run(context.Background(), records)
	if err == nil {
		t.Fatal("expected error")
	}
	if stored != 2 {
		t.Errorf("stored = %d, want 2 before the failure", stored)
	}
}
