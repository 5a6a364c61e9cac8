// Package news retrieves articles from external news providers.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/umputun/newsboard/pkg/domain"
)

// DefaultNewsAPIEndpoint is the public NewsAPI base URL
const DefaultNewsAPIEndpoint = "https://newsapi.org"

// maximum response body size accepted from the provider
const maxResponseSize = 4 << 20

// NewsAPI searches articles with the NewsAPI "everything" endpoint
type NewsAPI struct {
	endpoint  string
	apiKey    string
	pageSize  int
	client    *http.Client
	sanitizer *Sanitizer
}

// NewsAPIParams defines parameters for NewsAPI client
type NewsAPIParams struct {
	Endpoint string
	APIKey   string
	PageSize int
	Timeout  time.Duration
}

// newsAPIResponse is the payload of /v2/everything
type newsAPIResponse struct {
	Status   string           `json:"status"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Articles []domain.Article `json:"articles"`
}

// NewNewsAPI makes NewsAPI client, missing parameters set to defaults
func NewNewsAPI(params NewsAPIParams) *NewsAPI {
	if params.Endpoint == "" {
		params.Endpoint = DefaultNewsAPIEndpoint
	}
	if params.PageSize <= 0 {
		params.PageSize = 6
	}
	if params.Timeout <= 0 {
		params.Timeout = 30 * time.Second
	}
	return &NewsAPI{
		endpoint:  strings.TrimRight(params.Endpoint, "/"),
		apiKey:    params.APIKey,
		pageSize:  params.PageSize,
		client:    &http.Client{Timeout: params.Timeout},
		sanitizer: NewSanitizer(),
	}
}

// Name returns source name
func (n *NewsAPI) Name() string { return "newsapi" }

// Search returns articles matching the query. Non-ok responses are returned as *domain.UpstreamError,
// network and decoding failures as *domain.TransportError. Requests are never retried.
func (n *NewsAPI) Search(ctx context.Context, query string) ([]domain.Article, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("pageSize", strconv.Itoa(n.pageSize))
	q.Set("apiKey", n.apiKey)
	reqURL := n.endpoint + "/v2/everything?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "newsboard/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("fetch news: %w", redactKey(err, n.apiKey))}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	var data newsAPIResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("decode response, status %d: %w", resp.StatusCode, err)}
	}

	if data.Status != "ok" {
		return nil, &domain.UpstreamError{Status: data.Status, Code: data.Code, Message: data.Message}
	}

	articles := make([]domain.Article, 0, len(data.Articles))
	for _, a := range data.Articles {
		a.Description = n.sanitizer.Text(a.Description)
		a.Title = n.sanitizer.Text(a.Title)
		articles = append(articles, a)
	}
	return articles, nil
}

// redactKey removes api key from error text, url.Error includes the full request URL
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	msg := err.Error()
	for _, k := range []string{key, url.QueryEscape(key)} {
		msg = strings.ReplaceAll(msg, k, "****")
	}
	if msg == err.Error() {
		return err
	}
	return &redactedError{msg: msg, err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
