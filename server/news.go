package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/rest"

	"github.com/umputun/newsboard/pkg/dashboard"
	"github.com/umputun/newsboard/pkg/domain"
)

// apiSession marks search log records made through the /api/news passthrough
const apiSession = "api"

// newsHandler passes a search to the news source and returns articles as is.
// It doesn't touch dashboard sessions.
func (s *Server) newsHandler(w http.ResponseWriter, r *http.Request) {
	query := s.searchQuery(r.URL.Query().Get("search"))

	articles, err := s.source.Search(r.Context(), query)
	s.recordFetch(r.Context(), apiSession, query, len(articles), err)
	if err != nil {
		var upErr *domain.UpstreamError
		if errors.As(err, &upErr) {
			log.Printf("[WARN] news search %q rejected: %v", query, err)
			renderJSON(w, r, http.StatusInternalServerError, rest.JSON{"message": upErr.Message})
			return
		}
		log.Printf("[ERROR] news search %q failed: %v", query, err)
		renderJSON(w, r, http.StatusInternalServerError, rest.JSON{"message": "Failed to fetch news", "error": err.Error()})
		return
	}

	if articles == nil {
		articles = []domain.Article{}
	}
	renderJSON(w, r, http.StatusOK, articles)
}

// searchQuery trims user input, empty input gives the configured default query
func (s *Server) searchQuery(raw string) string {
	if query := strings.TrimSpace(raw); query != "" {
		return query
	}
	return s.config.GetFullConfig().News.DefaultQuery
}

// fetchInto runs a search and reduces its outcome into the session state.
// A failed search keeps previously displayed articles.
func (s *Server) fetchInto(ctx context.Context, sessionID, query string) dashboard.State {
	articles, err := s.source.Search(ctx, query)
	s.recordFetch(ctx, sessionID, query, len(articles), err)

	var action dashboard.Action = dashboard.FetchSucceeded{Query: query, Articles: articles, At: time.Now()}
	if err != nil {
		log.Printf("[WARN] search %q failed: %v", query, err)
		action = dashboard.FetchFailed{Query: query, Err: err, At: time.Now()}
	} else {
		log.Printf("[DEBUG] search %q returned %d articles", query, len(articles))
	}

	state, err := s.store.Dispatch(sessionID, action)
	if err != nil {
		log.Printf("[ERROR] can't apply search result to session: %v", err)
	}
	return state
}

// recordFetch writes a search log record, failures are only logged
func (s *Server) recordFetch(ctx context.Context, session, query string, count int, fetchErr error) {
	if s.fetchLog == nil {
		return
	}
	rec := &domain.FetchRecord{
		Session:  session,
		Query:    query,
		Source:   s.source.Name(),
		Status:   domain.StatusOf(fetchErr),
		Articles: count,
	}
	if fetchErr != nil {
		rec.Message = fetchErr.Error()
	}
	if err := s.fetchLog.RecordFetch(context.WithoutCancel(ctx), rec); err != nil {
		log.Printf("[WARN] failed to record search %q: %v", query, err)
	}
}
