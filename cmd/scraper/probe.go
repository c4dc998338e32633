package main

import (
	"fmt"

	"go-jobscout-automation/internal/config"
	"go-jobscout-automation/internal/models"
	"go-jobscout-automation/internal/scraper"
	"go-jobscout-automation/internal/scraper/bayt"
	"go-jobscout-automation/internal/scraper/indeed"
	"go-jobscout-automation/internal/scraper/linkedin"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var probeCmd = &cobra.Command{
	Use:   "probe [source...]",
	Short: "Open each source's first search page and count card selectors",
	Long: `probe navigates to the first search page of each source, reports how many
elements every card selector matches and saves a screenshot. Nothing is
written to any store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := flags
		if len(args) > 0 {
			f.sources = args
		}
		return probe(cmd, f)
	},
}

func probe(cmd *cobra.Command, f runFlags) error {
	cfg, sources, log, err := setup(cmd, f)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	role := f.role
	if role == "" {
		role = cfg.Roles[0]
	}

	ctx := cmd.Context()
	page, closeBrowser, err := openPage(ctx, cfg, sources, log)
	if err != nil {
		return err
	}
	defer closeBrowser()

	for _, src := range sources {
		report, err := scraper.Probe(ctx, page, siteFor(cfg, src), role)
		if err != nil {
			log.Error("❌ Probe failed", zap.String("source", string(src)), zap.Error(err))
			continue
		}
		printReport(cmd, src, report)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}

func siteFor(cfg *config.Config, src models.Source) scraper.Site {
	opts := scraper.Options{Roles: cfg.Roles, MaxPages: cfg.Scrape.MaxPages, LoadTimeout: cfg.Scrape.LoadTimeout}
	switch src {
	case models.SourceBayt:
		return bayt.Site(opts)
	case models.SourceIndeed:
		return indeed.Site(opts)
	default:
		return linkedin.Site(opts)
	}
}

func printReport(cmd *cobra.Command, src models.Source, r scraper.ProbeReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🔍 %s  %s\n", src, r.URL)
	fmt.Fprintf(out, "   ready: %v\n", r.Ready)
	for _, sc := range r.Selectors {
		fmt.Fprintf(out, "   %-45s %d\n", sc.Selector, sc.Count)
	}
	if r.Screenshot != "" {
		fmt.Fprintf(out, "   📸 %s\n", r.Screenshot)
	}
}

