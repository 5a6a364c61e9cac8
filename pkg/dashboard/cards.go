package dashboard

import (
	"strings"
	"time"

	"github.com/umputun/newsboard/pkg/domain"
)

// Card is an article shown on the dashboard with its position in the session list
type Card struct {
	Index int
	domain.Article
}

// Cards returns articles passing author and date filters, keeping their list positions.
// Filters only narrow what is displayed, tallies and exports always use the whole list.
func (s State) Cards() []Card {
	res := make([]Card, 0, len(s.Articles))
	for i, a := range s.Articles {
		if !matchAuthor(a, s.Filters.Author) || !matchDates(a, s.Filters.DateRange) {
			continue
		}
		res = append(res, Card{Index: i, Article: a})
	}
	return res
}

func matchAuthor(a domain.Article, author string) bool {
	author = strings.TrimSpace(author)
	if author == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.AuthorLabel()), strings.ToLower(author))
}

// matchDates compares publish date with an inclusive YYYY-MM-DD range.
// Articles without a parsable date are hidden once any bound is set.
func matchDates(a domain.Article, dr domain.DateRange) bool {
	if dr.From == "" && dr.To == "" {
		return true
	}
	ts, err := time.Parse(time.RFC3339, a.PublishedAt)
	if err != nil {
		return false
	}
	day := ts.UTC().Format(time.DateOnly)
	if dr.From != "" && day < dr.From {
		return false
	}
	if dr.To != "" && day > dr.To {
		return false
	}
	return true
}
