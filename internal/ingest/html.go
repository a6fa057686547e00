package ingest

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// ExtractHTML pulls the readable article text out of an HTML document.
// Navigation, scripts and boilerplate are stripped with goquery before
// readability scores the remainder, which keeps cluttered lesson pages from
// polluting the extraction.
func ExtractHTML(r io.Reader, sourceURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, nav, footer, header, aside, form, iframe").Remove()
	cleaned, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize cleaned HTML: %w", err)
	}

	parsedURL, err := url.Parse(sourceURL)
	if err != nil {
		parsedURL = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(cleaned), parsedURL)
	if err != nil {
		return "", fmt.Errorf("readability extraction failed: %w", err)
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no readable content found")
	}
	return text, nil
}
