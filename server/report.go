package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-pkgz/rest"

	"github.com/umputun/newsboard/pkg/dashboard"
	"github.com/umputun/newsboard/pkg/domain"
	"github.com/umputun/newsboard/pkg/export"
	"github.com/umputun/newsboard/pkg/report"
)

const maxHistoryLimit = 100

// reportResponse is the JSON form of session tallies
type reportResponse struct {
	report.Report
	Total float64 `json:"total"`
}

func newReportResponse(state dashboard.State) reportResponse {
	res := reportResponse{Report: state.Report(), Total: report.Total(state.Payouts)}
	if res.AuthorCounts == nil {
		res.AuthorCounts = map[string]int{}
	}
	if res.TypeCounts == nil {
		res.TypeCounts = map[string]int{}
	}
	if res.Payouts == nil {
		res.Payouts = []domain.AuthorPayout{}
	}
	return res
}

// exportHandler downloads articles of the session as csv or pdf
func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.PathValue("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	state, _ := s.store.Get(s.sessionID(w, r))
	var buf bytes.Buffer
	if err := export.Write(&buf, format, s.config.GetFullConfig().Report.PDFTitle, report.ToExportRows(state.Articles)); err != nil {
		log.Printf("[ERROR] failed to export %s: %v", format, err)
		http.Error(w, "Failed to export articles", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[WARN] failed to write %s export: %v", format, err)
	}
}

// reportHandler returns author and type counts with payouts of the session
func (s *Server) reportHandler(w http.ResponseWriter, r *http.Request) {
	state, _ := s.store.Get(s.sessionID(w, r))
	renderJSON(w, r, http.StatusOK, newReportResponse(state))
}

// apiPayoutHandler sets payout rate of a row, body is {"payoutRate": N}
func (s *Server) apiPayoutHandler(w http.ResponseWriter, r *http.Request) {
	idx, err := pathIndex(r, "index")
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	var req struct {
		PayoutRate *float64 `json:"payoutRate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}
	if req.PayoutRate == nil {
		renderError(w, r, errors.New("payoutRate is required"), http.StatusBadRequest)
		return
	}

	state, err := s.store.Dispatch(s.sessionID(w, r), dashboard.PayoutEdited{Index: idx, Rate: *req.PayoutRate})
	if err != nil {
		renderError(w, r, err, payoutErrorCode(err))
		return
	}
	renderJSON(w, r, http.StatusOK, newReportResponse(state))
}

// historyHandler returns recent searches of the session
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	limit := s.config.GetFullConfig().Database.HistorySize
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			renderError(w, r, fmt.Errorf("invalid limit %q", v), http.StatusBadRequest)
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	id := s.sessionID(w, r)
	if s.fetchLog == nil {
		renderJSON(w, r, http.StatusOK, []domain.FetchRecord{})
		return
	}
	records, err := s.fetchLog.RecentFetches(r.Context(), id, limit)
	if err != nil {
		log.Printf("[ERROR] failed to get search history: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []domain.FetchRecord{}
	}
	renderJSON(w, r, http.StatusOK, records)
}

// contentHandler extracts text of an article of the session, addressed by its list position
func (s *Server) contentHandler(w http.ResponseWriter, r *http.Request) {
	if s.extractor == nil {
		renderError(w, r, errors.New("article preview is disabled"), http.StatusNotFound)
		return
	}
	idx, err := pathIndex(r, "index")
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	state, _ := s.store.Get(s.sessionID(w, r))
	if idx >= len(state.Articles) || state.Articles[idx].URL == "" {
		renderError(w, r, domain.ErrNoArticle, http.StatusNotFound)
		return
	}
	article := state.Articles[idx]

	text, err := s.extractor.Extract(r.Context(), article.URL)
	if err != nil {
		log.Printf("[WARN] failed to extract %s: %v", article.URL, err)
		renderError(w, r, fmt.Errorf("failed to extract article content: %w", err), http.StatusBadGateway)
		return
	}
	renderJSON(w, r, http.StatusOK, rest.JSON{
		"index":   idx,
		"title":   article.TitleLabel(),
		"url":     article.URL,
		"content": text,
	})
}
