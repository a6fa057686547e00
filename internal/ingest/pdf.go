package ingest

import (
	"fmt"
	"os"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// ExtractPDF pulls plain text from every page of a PDF document.
func ExtractPDF(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader, err := model.NewPdfReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF %s: %w", path, err)
	}
	pages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to count pages in %s: %w", path, err)
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			return "", fmt.Errorf("failed to load page %d of %s: %w", i, path, err)
		}
		ex, err := extractor.New(page)
		if err != nil {
			return "", fmt.Errorf("failed to build extractor for page %d: %w", i, err)
		}
		text, err := ex.ExtractText()
		if err != nil {
			return "", fmt.Errorf("failed to extract page %d of %s: %w", i, path, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("no text content in %s", path)
	}
	return text, nil
}
