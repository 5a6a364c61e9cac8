package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// news source types
const (
	SourceNewsAPI = "newsapi"
	SourceRSS     = "rss"
)

// Config holds the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
	News       NewsConfig       `yaml:"news" json:"news" jsonschema:"description=News source configuration"`
	Report     ReportConfig     `yaml:"report" json:"report" jsonschema:"description=Report and payout configuration"`
	Session    SessionConfig    `yaml:"session" json:"session" jsonschema:"description=Dashboard session configuration"`
	Database   DatabaseConfig   `yaml:"database" json:"database" jsonschema:"description=Database configuration for the search log"`
	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Article preview extraction configuration"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
}

// NewsConfig holds news provider settings
type NewsConfig struct {
	Source       string        `yaml:"source" json:"source" jsonschema:"default=newsapi,enum=newsapi,enum=rss,description=News source type"`
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://newsapi.org,description=NewsAPI base URL"`
	APIKey       string        `yaml:"api_key" json:"-" jsonschema:"-"`
	RSSURL       string        `yaml:"rss_url" json:"rss_url" jsonschema:"default=https://news.google.com/rss/search?q=%s,description=RSS search URL template with %s for the query"`
	PageSize     int           `yaml:"page_size" json:"page_size" jsonschema:"default=6,minimum=1,maximum=100,description=Articles per search"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	DefaultQuery string        `yaml:"default_query" json:"default_query" jsonschema:"default=latest,description=Query used when search term is empty"`
	InitialQuery string        `yaml:"initial_query" json:"initial_query" jsonschema:"default=BBC Sports,description=Query of the first search in a new session"`
}

// ReportConfig holds payout table settings
type ReportConfig struct {
	PayoutRate    *float64 `yaml:"payout_rate,omitempty" json:"payout_rate,omitempty" jsonschema:"default=10,minimum=0,description=Default payout rate for new rows"` // nil if not set, 0 is a valid rate
	PreserveRates bool     `yaml:"preserve_rates" json:"preserve_rates" jsonschema:"default=false,description=Keep edited payout rates of authors across searches"`
	PDFTitle      string   `yaml:"pdf_title" json:"pdf_title" jsonschema:"default=Articles Report,description=Title line of PDF export"`
}

// SessionConfig holds dashboard session settings
type SessionConfig struct {
	CookieName    string        `yaml:"cookie_name" json:"cookie_name" jsonschema:"default=newsboard_session,description=Session cookie name"`
	TTL           time.Duration `yaml:"ttl" json:"ttl" jsonschema:"default=24h,description=Idle session lifetime"`
	SweepInterval time.Duration `yaml:"sweep_interval" json:"sweep_interval" jsonschema:"default=10m,description=How often expired sessions are removed"`
	SecureCookie  bool          `yaml:"secure_cookie" json:"secure_cookie" jsonschema:"default=false,description=Set Secure flag on session cookie"`
}

// DatabaseConfig holds search log database settings
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn" json:"dsn" jsonschema:"default=file:newsboard.db?mode=rwc&_txlock=immediate&_pragma=busy_timeout(5000),description=Database connection string"`
	MaxOpenConns    int           `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
	MaxIdleConns    int           `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime int           `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	HistorySize     int           `yaml:"history_size" json:"history_size" jsonschema:"default=10,minimum=1,description=Number of recent searches shown on the dashboard"`
	Retention       time.Duration `yaml:"retention" json:"retention" jsonschema:"default=720h,description=How long search log records are kept"`
}

// ExtractionConfig holds article preview extraction settings
type ExtractionConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=true,description=Enable article preview"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Extraction timeout per article"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Mozilla/5.0 (compatible; newsboard/1.0),description=User agent for HTTP requests"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=20,description=Minimum text length to consider valid"`
	MaxTextLength int           `yaml:"max_text_length" json:"max_text_length" jsonschema:"default=2000,description=Preview is cut to this many characters"`
}

// Load reads configuration from a YAML file, environment variables in the file are expanded
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Config{Extraction: ExtractionConfig{Enabled: true}}
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// Default returns configuration with all defaults set, used when no config file given
func Default() *Config {
	cfg := Config{Extraction: ExtractionConfig{Enabled: true}}
	setDefaults(&cfg)
	return &cfg
}

func setDefaults(cfg *Config) {
	// server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// news
	if cfg.News.Source == "" {
		cfg.News.Source = SourceNewsAPI
	}
	if cfg.News.Endpoint == "" {
		cfg.News.Endpoint = "https://newsapi.org"
	}
	if cfg.News.RSSURL == "" {
		cfg.News.RSSURL = "https://news.google.com/rss/search?q=%s"
	}
	if cfg.News.PageSize == 0 {
		cfg.News.PageSize = 6
	}
	if cfg.News.Timeout == 0 {
		cfg.News.Timeout = 30 * time.Second
	}
	if cfg.News.DefaultQuery == "" {
		cfg.News.DefaultQuery = "latest"
	}
	if cfg.News.InitialQuery == "" {
		cfg.News.InitialQuery = "BBC Sports"
	}

	// report
	if cfg.Report.PayoutRate == nil {
		rate := 10.0
		cfg.Report.PayoutRate = &rate
	}
	if cfg.Report.PDFTitle == "" {
		cfg.Report.PDFTitle = "Articles Report"
	}

	// session
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "newsboard_session"
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 24 * time.Hour
	}
	if cfg.Session.SweepInterval == 0 {
		cfg.Session.SweepInterval = 10 * time.Minute
	}

	// database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:newsboard.db?mode=rwc&_txlock=immediate&_pragma=busy_timeout(5000)"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}
	if cfg.Database.HistorySize == 0 {
		cfg.Database.HistorySize = 10
	}
	if cfg.Database.Retention == 0 {
		cfg.Database.Retention = 30 * 24 * time.Hour
	}

	// extraction
	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 15 * time.Second
	}
	if cfg.Extraction.UserAgent == "" {
		cfg.Extraction.UserAgent = "Mozilla/5.0 (compatible; newsboard/1.0)"
	}
	if cfg.Extraction.MinTextLength == 0 {
		cfg.Extraction.MinTextLength = 20
	}
	if cfg.Extraction.MaxTextLength == 0 {
		cfg.Extraction.MaxTextLength = 2000
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.News.Source != SourceNewsAPI && cfg.News.Source != SourceRSS {
		return fmt.Errorf("news.source must be %q or %q, got %q", SourceNewsAPI, SourceRSS, cfg.News.Source)
	}
	if cfg.News.PageSize < 1 || cfg.News.PageSize > 100 {
		return fmt.Errorf("news.page_size must be between 1 and 100")
	}
	if cfg.News.Timeout < time.Second {
		return fmt.Errorf("news.timeout must be at least 1 second")
	}
	if *cfg.Report.PayoutRate < 0 || math.IsNaN(*cfg.Report.PayoutRate) || math.IsInf(*cfg.Report.PayoutRate, 0) {
		return fmt.Errorf("report.payout_rate must be a non-negative number")
	}
	if cfg.Session.TTL < time.Minute {
		return fmt.Errorf("session.ttl must be at least 1 minute")
	}
	if cfg.Database.HistorySize < 1 {
		return fmt.Errorf("database.history_size must be at least 1")
	}
	if cfg.Extraction.Enabled && cfg.Extraction.Timeout < time.Second {
		return fmt.Errorf("extraction timeout must be at least 1 second")
	}
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	return nil
}

// CheckAPIKey returns error if the selected source needs an API key and none is set
func (c *Config) CheckAPIKey() error {
	if c.News.Source == SourceNewsAPI && c.News.APIKey == "" {
		return fmt.Errorf("news api key is required for %q source, set NEWSAPI_KEY or news.api_key", SourceNewsAPI)
	}
	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetFullConfig returns the full configuration
func (c *Config) GetFullConfig() *Config {
	return c
}
