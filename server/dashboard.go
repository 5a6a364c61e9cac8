package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/umputun/newsboard/pkg/dashboard"
	"github.com/umputun/newsboard/pkg/domain"
	"github.com/umputun/newsboard/pkg/report"
)

// dashboardPage is the template data of the dashboard
type dashboardPage struct {
	Version     string
	Search      string
	Error       string
	Filters     domain.FilterState
	Types       []string
	Cards       []dashboard.Card
	Total       int
	AuthorChart chartData
	TypeChart   chartData
	Payouts     []payoutRow
	PayoutTotal float64
	History     []domain.FetchRecord
	Preview     bool
	FetchedAt   time.Time
}

type chartData struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

type payoutRow struct {
	Index int
	domain.AuthorPayout
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
		"rate":  func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
		"since": func(t time.Time) string { return t.Format("Jan 2 15:04") },
	}
}

// dashboardHandler renders the dashboard, the first visit of a session runs the initial search
func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	state, _ := s.store.Get(id)
	if !state.Fetched {
		state = s.fetchInto(r.Context(), id, s.config.GetFullConfig().News.InitialQuery)
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "dashboard.html", s.buildPage(r.Context(), id, state)); err != nil {
		log.Printf("[ERROR] failed to render dashboard: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[WARN] failed to write dashboard: %v", err)
	}
}

// searchHandler runs a search for the session and goes back to the dashboard
func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	id := s.sessionID(w, r)
	s.fetchInto(r.Context(), id, s.searchQuery(r.FormValue("search")))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// filtersHandler stores filter values of the session
func (s *Server) filtersHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	filters, err := parseFilters(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := s.sessionID(w, r)
	if _, err := s.store.Dispatch(id, dashboard.FiltersChanged{Filters: filters}); err != nil {
		log.Printf("[ERROR] can't apply filters: %v", err)
		http.Error(w, "Failed to apply filters", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// payoutHandler sets payout rate of a row from the dashboard form
func (s *Server) payoutHandler(w http.ResponseWriter, r *http.Request) {
	idx, err := pathIndex(r, "index")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("rate")), 64)
	if err != nil {
		http.Error(w, "invalid payout rate", http.StatusBadRequest)
		return
	}

	id := s.sessionID(w, r)
	if _, err := s.store.Dispatch(id, dashboard.PayoutEdited{Index: idx, Rate: rate}); err != nil {
		http.Error(w, err.Error(), payoutErrorCode(err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func payoutErrorCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseFilters reads and validates filter form fields
func parseFilters(r *http.Request) (domain.FilterState, error) {
	res := domain.FilterState{
		Author: strings.TrimSpace(r.FormValue("author")),
		DateRange: domain.DateRange{
			From: strings.TrimSpace(r.FormValue("from")),
			To:   strings.TrimSpace(r.FormValue("to")),
		},
		Type: strings.TrimSpace(r.FormValue("type")),
	}

	if res.Type != "" && !slices.Contains(domain.ArticleTypes, res.Type) {
		return domain.FilterState{}, fmt.Errorf("unknown article type %q", res.Type)
	}
	for _, d := range []string{res.DateRange.From, res.DateRange.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, d); err != nil {
			return domain.FilterState{}, fmt.Errorf("invalid date %q", d)
		}
	}
	if res.DateRange.From != "" && res.DateRange.To != "" && res.DateRange.From > res.DateRange.To {
		return domain.FilterState{}, fmt.Errorf("date range start %s is after end %s", res.DateRange.From, res.DateRange.To)
	}
	return res, nil
}

// buildPage prepares template data from session state
func (s *Server) buildPage(ctx context.Context, id string, state dashboard.State) dashboardPage {
	page := dashboardPage{
		Version:     s.version,
		Search:      state.Search,
		Filters:     state.Filters,
		Types:       domain.ArticleTypes,
		Cards:       state.Cards(),
		Total:       len(state.Articles),
		AuthorChart: newChartData(state.AuthorCounts),
		TypeChart:   newChartData(state.TypeCounts),
		PayoutTotal: report.Total(state.Payouts),
		Preview:     s.extractor != nil,
		FetchedAt:   state.FetchedAt,
	}
	if state.LastError != nil {
		page.Error = state.LastError.Error()
	}
	for i, p := range state.Payouts {
		page.Payouts = append(page.Payouts, payoutRow{Index: i, AuthorPayout: p})
	}

	if s.fetchLog != nil {
		history, err := s.fetchLog.RecentFetches(ctx, id, s.config.GetFullConfig().Database.HistorySize)
		if err != nil {
			log.Printf("[WARN] failed to load recent searches: %v", err)
		}
		page.History = history
	}
	return page
}

// newChartData turns counts into label/value lists sorted by label
func newChartData(counts map[string]int) chartData {
	res := chartData{Labels: []string{}, Values: []int{}}
	for _, k := range slices.Sorted(maps.Keys(counts)) {
		res.Labels = append(res.Labels, k)
		res.Values = append(res.Values, counts[k])
	}
	return res
}
