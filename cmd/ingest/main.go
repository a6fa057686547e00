package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"rox-tutor/internal/config"
	"rox-tutor/internal/ingest"
	"rox-tutor/internal/knowledge"
)

// Loads expert knowledge into the vector store. Structured JSON files carry
// their own categories and metadata; HTML and PDF sources are extracted,
// chunked and filed under the category given on the command line.
func main() {
	configPath := flag.String("config", "config.json", "path to config file")
	jsonPath := flag.String("json", "", "knowledge JSON file to ingest")
	pdfPath := flag.String("pdf", "", "PDF document to ingest")
	htmlPath := flag.String("html", "", "HTML file to ingest")
	category := flag.String("category", "", "category for pdf/html ingestion")
	source := flag.String("source", "", "source label for pdf/html records")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	records, err := collectRecords(*jsonPath, *pdfPath, *htmlPath, *category, *source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingest error: %v\n", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to ingest: pass -json, -pdf or -html")
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := knowledge.NewStore(cfg.Qdrant.URL, cfg.Qdrant.Collection, cfg.Qdrant.APIKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Knowledge store error: %v\n", err)
		os.Exit(1)
	}
	embedder, err := knowledge.NewGeminiEmbedder(ctx, cfg.Gemini)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Embedder error: %v\n", err)
		os.Exit(1)
	}

	pipeline := ingest.NewPipeline(store, embedder, 32)
	stored, err := pipeline.Run(ctx, records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingest failed after %d records: %v\n", stored, err)
		os.Exit(1)
	}
	fmt.Printf("Ingested %d records into %q\n", stored, cfg.Qdrant.Collection)
}

func collectRecords(jsonPath, pdfPath, htmlPath, category, source string) ([]knowledge.Record, error) {
	var records []knowledge.Record

	if jsonPath != "" {
		fromJSON, err := ingest.ReadJSON(jsonPath)
		if err != nil {
			return nil, err
		}
		records = append(records, fromJSON...)
	}

	if pdfPath != "" || htmlPath != "" {
		if !knowledge.ValidCategory(category) {
			return nil, fmt.Errorf("pdf/html ingestion needs a valid -category, got %q", category)
		}
	}

	if pdfPath != "" {
		text, err := ingest.ExtractPDF(pdfPath)
		if err != nil {
			return nil, err
		}
		label := source
		if label == "" {
			label = pdfPath
		}
		chunks := ingest.ChunkText(text, 1500)
		records = append(records, ingest.RecordsFromText(knowledge.Category(category), label, chunks)...)
	}

	if htmlPath != "" {
		f, err := os.Open(htmlPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", htmlPath, err)
		}
		defer f.Close()
		label := source
		if label == "" {
			label = htmlPath
		}
		sourceURL := label
		if !strings.HasPrefix(sourceURL, "http") {
			sourceURL = "file://" + htmlPath
		}
		text, err := ingest.ExtractHTML(f, sourceURL)
		if err != nil {
			return nil, err
		}
		chunks := ingest.ChunkText(text, 1500)
		records = append(records, ingest.RecordsFromText(knowledge.Category(category), label, chunks)...)
	}

	return records, nil
}
