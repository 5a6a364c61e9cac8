package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsboard/pkg/config"
	"github.com/umputun/newsboard/pkg/dashboard"
	"github.com/umputun/newsboard/pkg/domain"
	"github.com/umputun/newsboard/server/mocks"
)

const testCookie = "newsboard_session"

// testServer creates a server with default config and the given collaborators
func testServer(t *testing.T, source NewsSource, fetchLog FetchLog, extractor ContentExtractor) *Server {
	t.Helper()
	cfg := config.Default()
	cfgMock := &mocks.ConfigProviderMock{
		GetFullConfigFunc: func() *config.Config { return cfg },
		GetServerConfigFunc: func() (string, time.Duration) {
			return cfg.Server.Listen, cfg.Server.Timeout
		},
	}
	return New(Params{
		Config:    cfgMock,
		Source:    source,
		FetchLog:  fetchLog,
		Extractor: extractor,
		Store:     dashboard.NewStore(time.Hour, dashboard.Options{PayoutRate: cfg.Report.PayoutRate}),
		Version:   "test",
	})
}

// staticSource returns a source mock always answering with the given articles and error
func staticSource(articles []domain.Article, err error) *mocks.NewsSourceMock {
	return &mocks.NewsSourceMock{
		NameFunc: func() string { return "newsapi" },
		SearchFunc: func(ctx context.Context, query string) ([]domain.Article, error) {
			return articles, err
		},
	}
}

// sessionWith creates a session holding a successful fetch of articles
func sessionWith(t *testing.T, srv *Server, articles ...domain.Article) string {
	t.Helper()
	id := srv.store.NewSession()
	_, err := srv.store.Dispatch(id, dashboard.FetchSucceeded{Query: "go", Articles: articles, At: time.Now()})
	require.NoError(t, err)
	return id
}

// serve sends request through the full router, with session cookie if id is set
func serve(srv *Server, req *http.Request, id string) *httptest.ResponseRecorder {
	if id != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: id})
	}
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func formRequest(method, target string, form string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestServer_New(t *testing.T) {
	srv := testServer(t, staticSource(nil, nil), nil, nil)
	assert.NotNil(t, srv)
	assert.Equal(t, "test", srv.version)
	assert.False(t, srv.debug)
	assert.NotNil(t, srv.templates.Lookup("dashboard.html"))
}

func TestServer_Run(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	cfg := config.Default()
	srv := New(Params{
		Config: &mocks.ConfigProviderMock{
			GetFullConfigFunc: func() *config.Config { return cfg },
			GetServerConfigFunc: func() (string, time.Duration) {
				return fmt.Sprintf("127.0.0.1:%d", port), 30 * time.Second
			},
		},
		Source:  staticSource(nil, nil),
		Store:   dashboard.NewStore(time.Hour, dashboard.Options{}),
		Version: "1.0.0",
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/ping", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url) //nolint:gosec // test url
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "pong"
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server didn't stop")
	}
}

func TestServer_statusHandler(t *testing.T) {
	srv := testServer(t, staticSource(nil, nil), nil, &mocks.ContentExtractorMock{})
	sessionWith(t, srv)

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "newsboard", w.Header().Get("App-Name"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "test", resp["version"])
	assert.Equal(t, "newsapi", resp["source"])
	assert.Equal(t, true, resp["preview"])
	assert.InDelta(t, 1, resp["sessions"], 0)
}

func TestServer_sessionID(t *testing.T) {
	srv := testServer(t, staticSource(nil, nil), nil, nil)

	t.Run("new session sets cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		id := srv.sessionID(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
		require.NotEmpty(t, id)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, testCookie, cookies[0].Name)
		assert.Equal(t, id, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, "/", cookies[0].Path)
		assert.Equal(t, 24*3600, cookies[0].MaxAge)
	})

	t.Run("live session reused", func(t *testing.T) {
		id := srv.store.NewSession()
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		req.AddCookie(&http.Cookie{Name: testCookie, Value: id})
		w := httptest.NewRecorder()
		assert.Equal(t, id, srv.sessionID(w, req))
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("unknown session replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		req.AddCookie(&http.Cookie{Name: testCookie, Value: "stale"})
		w := httptest.NewRecorder()
		id := srv.sessionID(w, req)
		assert.NotEqual(t, "stale", id)
		require.Len(t, w.Result().Cookies(), 1)
	})
}

func TestPathIndex(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{value: "0", want: 0},
		{value: "12", want: 12},
		{value: "-1", wantErr: true},
		{value: "abc", wantErr: true},
		{value: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.SetPathValue("index", tt.value)
			got, err := pathIndex(req, "index")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderError(t *testing.T) {
	w := httptest.NewRecorder()
	renderError(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody), nil, http.StatusTeapot)
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.JSONEq(t, `{"error":"unknown error"}`, w.Body.String())
}
