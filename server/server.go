package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/newsboard/pkg/config"
	"github.com/umputun/newsboard/pkg/dashboard"
	"github.com/umputun/newsboard/pkg/domain"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/news_source.go -pkg mocks -skip-ensure -fmt goimports . NewsSource
//go:generate moq -out mocks/fetch_log.go -pkg mocks -skip-ensure -fmt goimports . FetchLog
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . ContentExtractor

//go:embed templates/*.html
var templatesFS embed.FS

// Server represents HTTP server instance
type Server struct {
	config    ConfigProvider
	source    NewsSource
	fetchLog  FetchLog
	extractor ContentExtractor
	store     *dashboard.Store
	version   string
	debug     bool
	templates *template.Template

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Params holds server dependencies
type Params struct {
	Config    ConfigProvider
	Source    NewsSource
	FetchLog  FetchLog         // optional, searches are not logged if nil
	Extractor ContentExtractor // optional, article preview is disabled if nil
	Store     *dashboard.Store
	Version   string
	Debug     bool
}

// NewsSource searches articles by query
type NewsSource interface {
	Name() string
	Search(ctx context.Context, query string) ([]domain.Article, error)
}

// FetchLog keeps the log of performed searches
type FetchLog interface {
	RecordFetch(ctx context.Context, rec *domain.FetchRecord) error
	RecentFetches(ctx context.Context, session string, limit int) ([]domain.FetchRecord, error)
}

// ContentExtractor extracts readable text of an article page
type ContentExtractor interface {
	Extract(ctx context.Context, urlStr string) (string, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetFullConfig() *config.Config
}

// New initializes a new server instance
func New(p Params) *Server {
	s := &Server{
		config:    p.Config,
		source:    p.Source,
		fetchLog:  p.FetchLog,
		extractor: p.Extractor,
		store:     p.Store,
		version:   p.Version,
		debug:     p.Debug,
		router:    routegroup.New(http.NewServeMux()),
	}

	s.templates = template.Must(template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "templates/*.html"))

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("newsboard", "umputun", s.version))
	s.router.Use(rest.Ping)
	s.router.Use(rest.RealIP)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	// dashboard
	s.router.HandleFunc("GET /{$}", s.dashboardHandler)
	s.router.HandleFunc("POST /search", s.searchHandler)
	s.router.HandleFunc("POST /filters", s.filtersHandler)
	s.router.HandleFunc("POST /payouts/{index}", s.payoutHandler)
	s.router.HandleFunc("GET /export/{format}", s.exportHandler)

	// internal news boundary and article preview
	s.router.HandleFunc("GET /api/news", s.newsHandler)
	s.router.HandleFunc("GET /api/content/{index}", s.contentHandler)

	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /report", s.reportHandler)
		r.HandleFunc("PUT /payouts/{index}", s.apiPayoutHandler)
		r.HandleFunc("GET /history", s.historyHandler)
	})
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := rest.JSON{
		"status":   "ok",
		"version":  s.version,
		"source":   s.source.Name(),
		"sessions": s.store.Len(),
		"preview":  s.extractor != nil,
		"time":     time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// sessionID returns id of the caller's dashboard session, a new session and cookie are
// made for requests without a live session
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	cfg := s.config.GetFullConfig().Session
	if c, err := r.Cookie(cfg.CookieName); err == nil && c.Value != "" {
		if _, ok := s.store.Get(c.Value); ok {
			return c.Value
		}
	}

	id := s.store.NewSession()
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// pathIndex parses a non-negative integer path value
func pathIndex(r *http.Request, name string) (int, error) {
	idx, err := strconv.Atoi(r.PathValue(name))
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, r.PathValue(name))
	}
	return idx, nil
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, rest.JSON{"error": errMsg})
}
