package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsboard/pkg/config"
	"github.com/umputun/newsboard/pkg/news"
)

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yml")
	require.NoError(t, os.WriteFile(path, []byte("invalid: yaml: content: ["), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_MissingAPIKey(t *testing.T) {
	t.Setenv("NEWSAPI_KEY", "")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Source: config.SourceNewsAPI, DSN: "file:" + filepath.Join(t.TempDir(), "t.db")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NEWSAPI_KEY")
}

func TestRun_ServerStartStop(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	tmpDir := t.TempDir()
	cfgData := fmt.Sprintf(`
server:
  listen: "127.0.0.1:%d"
news:
  source: rss
  rss_url: "http://127.0.0.1:1/rss?q=%%s"
database:
  dsn: "file:%s?mode=rwc&_pragma=busy_timeout(5000)"
extraction:
  enabled: false
`, port, filepath.Join(tmpDir, "newsboard.db"))
	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgData), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, Opts{Config: cfgPath}) }()

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

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/api/v1/status", port))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"source":"rss"`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server shutdown timeout")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := loadConfig(Opts{Listen: ":9999", Source: "rss", NewsAPIKey: "key", DSN: "file:x.db"})
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Listen)
	assert.Equal(t, config.SourceRSS, cfg.News.Source)
	assert.Equal(t, "key", cfg.News.APIKey)
	assert.Equal(t, "file:x.db", cfg.Database.DSN)

	cfg, err = loadConfig(Opts{})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestNewSource(t *testing.T) {
	cfg := config.Default()
	cfg.News.APIKey = "key"
	src := newSource(cfg)
	assert.IsType(t, &news.NewsAPI{}, src)
	assert.Equal(t, "newsapi", src.Name())

	cfg.News.Source = config.SourceRSS
	src = newSource(cfg)
	assert.IsType(t, &news.RSS{}, src)
	assert.Equal(t, "rss", src.Name())
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode", func(t *testing.T) {
		setupLog(true, false)
	})
	t.Run("no color", func(t *testing.T) {
		setupLog(false, true)
	})
	t.Run("with secrets", func(t *testing.T) {
		setupLog(false, true, "", "secret-key")
	})
	setupLog(false, false)
}
