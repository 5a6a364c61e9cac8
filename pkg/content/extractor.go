// Package content extracts readable text of article pages for the dashboard preview.
package content

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markusmobius/go-trafilatura"
)

// HTTPExtractor downloads article pages and extracts main text with trafilatura
type HTTPExtractor struct {
	client        *http.Client
	userAgent     string
	minTextLength int
	maxTextLength int
}

// Params defines extractor parameters
type Params struct {
	Timeout       time.Duration
	UserAgent     string
	MinTextLength int // extracted text shorter than this is an error
	MaxTextLength int // longer text is cut, 0 means no limit
}

// NewHTTPExtractor creates a new content extractor
func NewHTTPExtractor(params Params) *HTTPExtractor {
	if params.Timeout <= 0 {
		params.Timeout = 30 * time.Second
	}
	if params.UserAgent == "" {
		params.UserAgent = "Mozilla/5.0 (compatible; newsboard/1.0)"
	}
	return &HTTPExtractor{
		client:        &http.Client{Timeout: params.Timeout},
		userAgent:     params.UserAgent,
		minTextLength: params.MinTextLength,
		maxTextLength: params.MaxTextLength,
	}
}

// Extract retrieves the page and returns its main text content
func (e *HTTPExtractor) Extract(ctx context.Context, urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") || parsedURL.Host == "" {
		return "", fmt.Errorf("invalid URL: %q", urlStr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	addBrowserHeaders(req)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch URL %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for URL %s", resp.StatusCode, urlStr)
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		Deduplicate:     true,
		OriginalURL:     parsedURL,
	}

	result, err := trafilatura.Extract(resp.Body, opts)
	if err != nil {
		return "", fmt.Errorf("extract content from %s: %w", urlStr, err)
	}
	if result == nil {
		return "", fmt.Errorf("no content extracted from %s", urlStr)
	}

	text := strings.TrimSpace(result.ContentText)
	if text == "" || len(text) < e.minTextLength {
		return "", fmt.Errorf("too little text extracted from %s: %d chars", urlStr, len(text))
	}
	if e.maxTextLength > 0 && len([]rune(text)) > e.maxTextLength {
		text = string([]rune(text)[:e.maxTextLength]) + "..."
	}
	return text, nil
}
