package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/newsboard/pkg/config"
	"github.com/umputun/newsboard/pkg/content"
	"github.com/umputun/newsboard/pkg/dashboard"
	"github.com/umputun/newsboard/pkg/news"
	"github.com/umputun/newsboard/pkg/repository"
	"github.com/umputun/newsboard/pkg/scheduler"
	"github.com/umputun/newsboard/server"
)

// Opts with all CLI options
type Opts struct {
	Config     string `short:"c" long:"config" env:"CONFIG" description:"configuration file, defaults are used if not set"`
	Listen     string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`
	Source     string `long:"source" env:"NEWS_SOURCE" choice:"newsapi" choice:"rss" description:"news source, overrides config"`
	NewsAPIKey string `long:"newsapi-key" env:"NEWSAPI_KEY" description:"NewsAPI key, overrides config"`
	DSN        string `long:"dsn" env:"DB_DSN" description:"search log database DSN, overrides config"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

// logCleanupInterval is how often expired search log records are removed
const logCleanupInterval = time.Hour

var revision = "unknown"

func main() {
	// optional .env file, real environment wins
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("warning: can't load .env file: %v\n", err)
	}

	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor, opts.NewsAPIKey)
	log.Printf("[INFO] starting newsboard version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run wires all components and blocks until ctx is canceled or a component fails
func run(ctx context.Context, opts Opts) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.CheckAPIKey(); err != nil {
		return err
	}
	setupLog(opts.Debug, opts.NoColor, cfg.News.APIKey)

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	source := newSource(cfg)
	log.Printf("[INFO] news source %s, page size %d", source.Name(), cfg.News.PageSize)

	var extractor server.ContentExtractor
	if cfg.Extraction.Enabled {
		extractor = content.NewHTTPExtractor(content.Params{
			Timeout:       cfg.Extraction.Timeout,
			UserAgent:     cfg.Extraction.UserAgent,
			MinTextLength: cfg.Extraction.MinTextLength,
			MaxTextLength: cfg.Extraction.MaxTextLength,
		})
	}

	store := dashboard.NewStore(cfg.Session.TTL, dashboard.Options{
		PayoutRate:    cfg.Report.PayoutRate,
		PreserveRates: cfg.Report.PreserveRates,
	})

	srv := server.New(server.Params{
		Config:    cfg,
		Source:    source,
		FetchLog:  repos.Fetch,
		Extractor: extractor,
		Store:     store,
		Version:   revision,
		Debug:     opts.Debug,
	})

	sched := scheduler.NewScheduler(scheduler.Params{
		Sessions:        store,
		FetchLog:        repos.Fetch,
		SweepInterval:   cfg.Session.SweepInterval,
		CleanupInterval: logCleanupInterval,
		Retention:       cfg.Database.Retention,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error {
		sched.Start(gctx)
		<-gctx.Done()
		sched.Stop()
		return nil
	})
	return g.Wait()
}

// loadConfig reads config file or uses defaults, then applies CLI overrides
func loadConfig(opts Opts) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, err
		}
	}

	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	if opts.Source != "" {
		cfg.News.Source = opts.Source
	}
	if opts.NewsAPIKey != "" {
		cfg.News.APIKey = opts.NewsAPIKey
	}
	if opts.DSN != "" {
		cfg.Database.DSN = opts.DSN
	}
	return cfg, nil
}

// newSource makes the news source selected by config
func newSource(cfg *config.Config) server.NewsSource {
	if cfg.News.Source == config.SourceRSS {
		return news.NewRSS(news.RSSParams{
			URLTemplate: cfg.News.RSSURL,
			PageSize:    cfg.News.PageSize,
			Timeout:     cfg.News.Timeout,
		})
	}
	return news.NewNewsAPI(news.NewsAPIParams{
		Endpoint: cfg.News.Endpoint,
		APIKey:   cfg.News.APIKey,
		PageSize: cfg.News.PageSize,
		Timeout:  cfg.News.Timeout,
	})
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if noColor {
		color.NoColor = true
	} else {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	var secrets []string
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
