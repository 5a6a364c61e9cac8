// Package report computes author and type tallies over a batch of articles,
// derives the author payout table and flattens articles for export.
package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/umputun/newsboard/pkg/domain"
)

// DefaultPayoutRate is the rate assigned to newly derived payout rows
const DefaultPayoutRate = 10.0

// Report is the result of a single aggregation pass
type Report struct {
	AuthorCounts map[string]int        `json:"authorCounts"`
	TypeCounts   map[string]int        `json:"typeCounts"`
	Payouts      []domain.AuthorPayout `json:"payouts"`
}

// Aggregate counts articles per author and per type and derives payout rows.
// The selected type applies to every article of the batch, empty selection counts as "General".
// Payout rows are sorted by author and carry DefaultPayoutRate.
func Aggregate(articles []domain.Article, selectedType string) Report {
	res := Report{
		AuthorCounts: CountAuthors(articles),
		TypeCounts:   CountTypes(articles, selectedType),
	}
	res.Payouts = DerivePayouts(res.AuthorCounts, DefaultPayoutRate)
	return res
}

// CountAuthors returns number of articles per author, missing authors counted as "Unknown Author"
func CountAuthors(articles []domain.Article) map[string]int {
	res := make(map[string]int)
	for _, a := range articles {
		res[a.AuthorLabel()]++
	}
	return res
}

// CountTypes returns number of articles per type label
func CountTypes(articles []domain.Article, selectedType string) map[string]int {
	label := selectedType
	if label == "" {
		label = domain.GeneralType
	}
	res := make(map[string]int)
	for range articles {
		res[label]++
	}
	return res
}

// DerivePayouts makes one payout row per author with the given rate
func DerivePayouts(authorCounts map[string]int, rate float64) []domain.AuthorPayout {
	return MergePayouts(nil, authorCounts, rate)
}

// MergePayouts makes payout rows for authors in authorCounts, keeping the rate of
// authors already present in previous. Authors missing from authorCounts are dropped.
func MergePayouts(previous []domain.AuthorPayout, authorCounts map[string]int, defaultRate float64) []domain.AuthorPayout {
	rates := make(map[string]float64, len(previous))
	for _, p := range previous {
		rates[p.Author] = p.PayoutRate
	}

	authors := make([]string, 0, len(authorCounts))
	for author := range authorCounts {
		authors = append(authors, author)
	}
	sort.Strings(authors)

	res := make([]domain.AuthorPayout, 0, len(authors))
	for _, author := range authors {
		rate, ok := rates[author]
		if !ok {
			rate = defaultRate
		}
		res = append(res, domain.AuthorPayout{Author: author, Articles: authorCounts[author], PayoutRate: rate})
	}
	return res
}

// EditPayoutRate returns a copy of rows with the rate of rows[index] replaced.
// The input slice is not modified.
func EditPayoutRate(rows []domain.AuthorPayout, index int, rate float64) ([]domain.AuthorPayout, error) {
	if index < 0 || index >= len(rows) {
		return nil, fmt.Errorf("payout row %d of %d: %w", index, len(rows), domain.ErrOutOfRange)
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return nil, fmt.Errorf("payout rate %v: %w", rate, domain.ErrInvalidRate)
	}
	res := make([]domain.AuthorPayout, len(rows))
	copy(res, rows)
	res[index].PayoutRate = rate
	return res, nil
}

// Total sums payout amounts of all rows
func Total(rows []domain.AuthorPayout) float64 {
	var total float64
	for _, r := range rows {
		total += r.Amount()
	}
	return total
}

// ToExportRows flattens articles into export rows in input order, missing fields become empty strings
func ToExportRows(articles []domain.Article) []domain.ExportRow {
	res := make([]domain.ExportRow, 0, len(articles))
	for _, a := range articles {
		res = append(res, domain.ExportRow{a.Title, a.Author, a.Description, a.PublishedAt, a.URL})
	}
	return res
}
