// Package dashboard keeps per-session dashboard state and applies user actions to it
// through a single reducer.
package dashboard

import (
	"fmt"
	"time"

	"github.com/umputun/newsboard/pkg/domain"
	"github.com/umputun/newsboard/pkg/report"
)

// State is a snapshot of a dashboard session. Reduce never modifies a State in place,
// it returns a new value sharing no mutable data with the previous one.
type State struct {
	Search       string
	Filters      domain.FilterState
	Articles     []domain.Article
	AuthorCounts map[string]int
	TypeCounts   map[string]int
	Payouts      []domain.AuthorPayout
	LastError    error
	FetchedAt    time.Time
	Fetched      bool // at least one fetch attempted
}

// Options control how the reducer derives payout rows
type Options struct {
	PayoutRate    *float64 // rate for new payout rows, report.DefaultPayoutRate if nil
	PreserveRates bool    // keep edited rates of authors across fetches
}

// Action is a user or system event changing the state
type Action interface {
	apply(s State, opts Options) (State, error)
}

// FetchSucceeded replaces the article list with a freshly fetched batch
type FetchSucceeded struct {
	Query    string
	Articles []domain.Article
	At       time.Time
}

// FetchFailed records a failed fetch, previous articles stay on display
type FetchFailed struct {
	Query string
	Err   error
	At    time.Time
}

// FiltersChanged stores new filter values and re-counts types
type FiltersChanged struct {
	Filters domain.FilterState
}

// PayoutEdited sets the rate of a single payout row
type PayoutEdited struct {
	Index int
	Rate  float64
}

// Reduce applies action to the state and returns the new state.
// On error the returned state is the unchanged input.
func Reduce(s State, action Action, opts Options) (State, error) {
	if action == nil {
		return s, fmt.Errorf("nil action")
	}
	next, err := action.apply(s.clone(), opts)
	if err != nil {
		return s, err
	}
	return next, nil
}

func (a FetchSucceeded) apply(s State, opts Options) (State, error) {
	s.Search = a.Query
	s.Articles = append([]domain.Article(nil), a.Articles...)
	s.AuthorCounts = report.CountAuthors(s.Articles)
	s.TypeCounts = report.CountTypes(s.Articles, s.Filters.Type)

	rate := report.DefaultPayoutRate
	if opts.PayoutRate != nil {
		rate = *opts.PayoutRate
	}
	if opts.PreserveRates {
		s.Payouts = report.MergePayouts(s.Payouts, s.AuthorCounts, rate)
	} else {
		s.Payouts = report.DerivePayouts(s.AuthorCounts, rate)
	}

	s.LastError = nil
	s.FetchedAt = a.At
	s.Fetched = true
	return s, nil
}

func (a FetchFailed) apply(s State, _ Options) (State, error) {
	s.Search = a.Query
	s.LastError = a.Err
	s.FetchedAt = a.At
	s.Fetched = true
	return s, nil
}

func (a FiltersChanged) apply(s State, _ Options) (State, error) {
	s.Filters = a.Filters
	s.TypeCounts = report.CountTypes(s.Articles, s.Filters.Type)
	return s, nil
}

func (a PayoutEdited) apply(s State, _ Options) (State, error) {
	payouts, err := report.EditPayoutRate(s.Payouts, a.Index, a.Rate)
	if err != nil {
		return s, err
	}
	s.Payouts = payouts
	return s, nil
}

// Report returns tallies of the state as a report value
func (s State) Report() report.Report {
	return report.Report{AuthorCounts: s.AuthorCounts, TypeCounts: s.TypeCounts, Payouts: s.Payouts}
}

// clone makes a deep copy of slices and maps
func (s State) clone() State {
	res := s
	res.Articles = append([]domain.Article(nil), s.Articles...)
	res.Payouts = append([]domain.AuthorPayout(nil), s.Payouts...)
	res.AuthorCounts = cloneCounts(s.AuthorCounts)
	res.TypeCounts = cloneCounts(s.TypeCounts)
	return res
}

func cloneCounts(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	res := make(map[string]int, len(m))
	for k, v := range m {
		res[k] = v
	}
	return res
}
