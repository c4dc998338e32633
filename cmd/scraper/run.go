package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go-jobscout-automation/internal/browser"
	"go-jobscout-automation/internal/config"
	"go-jobscout-automation/internal/filter"
	"go-jobscout-automation/internal/logger"
	"go-jobscout-automation/internal/models"
	"go-jobscout-automation/internal/pipeline"
	"go-jobscout-automation/internal/reporter"
	"go-jobscout-automation/internal/scraper"
	"go-jobscout-automation/internal/scraper/bayt"
	"go-jobscout-automation/internal/scraper/indeed"
	"go-jobscout-automation/internal/scraper/linkedin"
	"go-jobscout-automation/internal/store"
	"go-jobscout-automation/internal/store/airtable"
	"go-jobscout-automation/internal/store/memory"
	"go-jobscout-automation/internal/store/postgres"
	"go-jobscout-automation/internal/store/sqlite"

	"github.com/playwright-community/playwright-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func run(cmd *cobra.Command, f runFlags) error {
	cfg, sources, log, err := setup(cmd, f)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	if !f.dryRun {
		if err := cfg.RequireAirtable(); err != nil {
			return err
		}
	}
	log.Info("🔧 Config loaded", zap.Strings("sources", cfg.Sources), zap.Int("roles", len(cfg.Roles)), zap.Bool("dry_run", f.dryRun))

	ctx, cancel := context.WithTimeout(cmd.Context(), f.timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	records, runs, closeStores, err := openStores(ctx, cfg, f.dryRun, log)
	if err != nil {
		return err
	}
	defer closeStores()

	var opts []reporter.Option
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		notifier, err := reporter.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			log.Warn("⚠️ Telegram disabled", zap.Error(err))
		} else {
			log.Info("🤖 Telegram notifier initialized")
			opts = append(opts, reporter.WithNotifier(notifier))
		}
	}
	rep, err := reporter.New(runs, cfg.RunSchema, log, opts...)
	if err != nil {
		return err
	}

	runner := &pipeline.Runner{
		Scrapers:   buildScrapers(cfg, sources),
		Classifier: filter.NewClassifier(filter.NewDenylist(cfg.Denylist), filter.NewRoles(cfg.Roles)),
		Persister:  store.NewPersister(records, cfg.Airtable.Table, store.PostingSchema(cfg.Airtable.ExtendedFields), log),
		Reporter:   rep,
		Pace:       browser.Pacer{Min: cfg.Scrape.ActionDelayMin, Max: cfg.Scrape.ActionDelayMax},
		RoleDelay:  cfg.Scrape.RoleDelay,
		Log:        log,
	}

	page, closeBrowser, err := openPage(ctx, cfg, sources, log)
	if err != nil {
		runner.Abort(ctx, err)
		return err
	}
	defer closeBrowser()
	runner.Page = page

	summary := runner.Run(ctx)
	if summary.Status != models.RunSuccess {
		return fmt.Errorf("run %s failed", summary.RunID)
	}
	return nil
}

// setup loads the config, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, f runFlags) (*config.Config, []models.Source, *zap.Logger, error) {
	bootLog, err := logger.New(f.jsonLogs, "info")
	if err != nil {
		return nil, nil, nil, err
	}

	//load config
	cfg, err := config.Load(f.configPath, bootLog)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("❌ failed to load config: %w", err)
	}
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = f.headless
	}
	if len(f.sources) > 0 {
		cfg.Sources = f.sources
	}
	sources, err := cfg.SourceList()
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.New(f.jsonLogs || cfg.Log.JSON, cfg.Log.Level)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, sources, log, nil
}

// openPage starts Chromium with the given sources' cookies and returns the
// single page every adapter shares.
func openPage(ctx context.Context, cfg *config.Config, sources []models.Source, log *zap.Logger) (browser.Page, func(), error) {
	//init playwright manager
	pwManager, err := browser.NewPlaywright(ctx, cfg.Browser.Headless)
	if err != nil {
		return nil, nil, fmt.Errorf("❌ failed to init playwright: %w", err)
	}
	closeBrowser := func() {
		if err := pwManager.Close(); err != nil {
			log.Warn("failed to close browser", zap.Error(err))
		}
	}

	browserCtx, err := pwManager.NewContext(loadCookies(cfg.Browser.CookiesDir, sources, log))
	if err != nil {
		closeBrowser()
		return nil, nil, err
	}
	pwPage, err := browserCtx.NewPage()
	if err != nil {
		closeBrowser()
		return nil, nil, fmt.Errorf("❌ failed to create new page: %w", err)
	}
	log.Info("✅ Browser initialized successfully!")
	return browser.NewPage(pwPage, browser.NewScreenShotDebugger(cfg.Browser.ScreenshotDir)), closeBrowser, nil
}

func buildScrapers(cfg *config.Config, sources []models.Source) []scraper.Scraper {
	opts := scraper.Options{
		Roles:       cfg.Roles,
		MaxPages:    cfg.Scrape.MaxPages,
		LoadTimeout: cfg.Scrape.LoadTimeout,
	}
	var out []scraper.Scraper
	for _, src := range sources {
		switch src {
		case models.SourceLinkedIn:
			out = append(out, linkedin.NewLinkedInScraper(opts))
		case models.SourceBayt:
			out = append(out, bayt.NewBaytScraper(opts))
		case models.SourceIndeed:
			out = append(out, indeed.NewIndeedScraper(opts))
		}
	}
	return out
}

// loadCookies reads cookies-<source>.json for each enabled source. Missing
// files are expected for guest browsing.
func loadCookies(dir string, sources []models.Source, log *zap.Logger) []playwright.OptionalCookie {
	var all []playwright.OptionalCookie
	for _, src := range sources {
		name := strings.ToLower(string(src))
		path := filepath.Join(dir, "cookies-"+name+".json")
		cookies, err := browser.LoadCookies(path)
		if err != nil {
			log.Debug("No cookies loaded", zap.String("source", name), zap.Error(err))
			continue
		}
		log.Info("🍪 Loaded cookies", zap.String("source", name), zap.Int("count", len(cookies)))
		all = append(all, cookies...)
	}
	return all
}

// openStores returns the posting and run-log stores. Live runs write to
// Airtable and mirror to Postgres and SQLite when configured.
func openStores(ctx context.Context, cfg *config.Config, dryRun bool, log *zap.Logger) (store.RecordStore, store.RunLogStore, func(), error) {
	if dryRun {
		mem := memory.New()
		log.Info("🧪 Dry run: records stay in memory")
		return mem, mem, func() {
			log.Info("Dry run finished", zap.Int("records", len(mem.Records(cfg.Airtable.Table))), zap.Int("runs", len(mem.Runs())))
		}, nil
	}

	client := airtable.New(airtable.Config{
		APIKey:            cfg.Airtable.APIKey,
		BaseID:            cfg.Airtable.BaseID,
		RunsTable:         cfg.Airtable.RunsTable,
		RequestsPerSecond: cfg.Airtable.RequestsPerSecond,
	})
	tee := &store.Tee{Primary: client, PrimaryRun: client, Log: log}
	var closers []func()

	if cfg.DatabaseURL != "" {
		repo, err := postgres.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Warn("⚠️ Postgres mirror disabled", zap.Error(err))
		} else if err := repo.EnsureSchema(ctx); err != nil {
			log.Warn("⚠️ Postgres mirror disabled", zap.Error(err))
			repo.Close()
		} else {
			tee.Mirrors = append(tee.Mirrors, repo)
			closers = append(closers, repo.Close)
		}
	}
	if cfg.SQLitePath != "" {
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			log.Warn("⚠️ SQLite mirror disabled", zap.Error(err))
		} else {
			tee.Mirrors = append(tee.Mirrors, db)
			closers = append(closers, func() { _ = db.Close() })
		}
	}

	return tee, tee, func() {
		for _, c := range closers {
			c()
		}
	}, nil
}
