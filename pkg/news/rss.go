package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/umputun/newsboard/pkg/domain"
)

// DefaultRSSSearchURL is Google News search feed, %s is replaced with escaped query
const DefaultRSSSearchURL = "https://news.google.com/rss/search?q=%s"

// RSS searches articles through a search feed URL
type RSS struct {
	urlTemplate string
	pageSize    int
	timeout     time.Duration
	parser      *gofeed.Parser
	sanitizer   *Sanitizer
}

// RSSParams defines parameters for RSS source
type RSSParams struct {
	URLTemplate string
	PageSize    int
	Timeout     time.Duration
}

// NewRSS makes RSS source, missing parameters set to defaults
func NewRSS(params RSSParams) *RSS {
	if params.URLTemplate == "" {
		params.URLTemplate = DefaultRSSSearchURL
	}
	if params.PageSize <= 0 {
		params.PageSize = 6
	}
	if params.Timeout <= 0 {
		params.Timeout = 30 * time.Second
	}
	parser := gofeed.NewParser()
	parser.UserAgent = "newsboard/1.0"
	return &RSS{
		urlTemplate: params.URLTemplate,
		pageSize:    params.PageSize,
		timeout:     params.Timeout,
		parser:      parser,
		sanitizer:   NewSanitizer(),
	}
}

// Name returns source name
func (r *RSS) Name() string { return "rss" }

// Search fetches the search feed for query and converts up to page size items to articles.
// Feeds can't report provider errors, so all failures are *domain.TransportError.
func (r *RSS) Search(ctx context.Context, query string) ([]domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	feedURL := r.urlTemplate
	if strings.Contains(feedURL, "%s") {
		feedURL = fmt.Sprintf(r.urlTemplate, url.QueryEscape(query))
	}

	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("parse feed %s: %w", feedURL, err)}
	}

	articles := make([]domain.Article, 0, min(len(feed.Items), r.pageSize))
	for _, item := range feed.Items {
		if len(articles) >= r.pageSize {
			break
		}
		articles = append(articles, r.toArticle(item))
	}
	return articles, nil
}

func (r *RSS) toArticle(item *gofeed.Item) domain.Article {
	res := domain.Article{
		Title:       r.sanitizer.Text(item.Title),
		Description: r.sanitizer.Text(item.Description),
		URL:         item.Link,
	}

	switch {
	case item.Author != nil && item.Author.Name != "":
		res.Author = item.Author.Name
	case len(item.Authors) > 0 && item.Authors[0] != nil:
		res.Author = item.Authors[0].Name
	}

	// publish time, falls back to update time
	if item.PublishedParsed != nil {
		res.PublishedAt = item.PublishedParsed.UTC().Format(time.RFC3339)
	} else if item.UpdatedParsed != nil {
		res.PublishedAt = item.UpdatedParsed.UTC().Format(time.RFC3339)
	}
	return res
}
