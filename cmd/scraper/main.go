package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type runFlags struct {
	configPath string
	headless   bool
	dryRun     bool
	sources    []string
	jsonLogs   bool
	timeout    time.Duration
	role       string
}

var flags runFlags

var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "JobScout - job posting collector for LinkedIn, Bayt and Indeed",
	Long: `JobScout searches job boards for the configured target roles, keeps the
relevant listings from smaller companies, and writes them to Airtable together
with one run-log record per run.

Examples:
  jobscout run                      # Live run with configs/config.yaml
  jobscout run --dry-run            # Scrape without writing to Airtable
  jobscout run --sources indeed     # Only one source`,
	SilenceUsage: true,
	// bare "jobscout" behaves like "jobscout run"
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCmd.RunE(cmd, args)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scrape across all enabled sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, flags)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "configs/config.yaml", "path to the YAML config file")
	pf.BoolVar(&flags.headless, "headless", true, "run the browser without a window")
	pf.BoolVar(&flags.jsonLogs, "json-logs", false, "emit JSON logs")

	for _, cmd := range []*cobra.Command{rootCmd, runCmd} {
		f := cmd.Flags()
		f.BoolVar(&flags.dryRun, "dry-run", false, "keep results in memory instead of writing to Airtable")
		f.StringSliceVar(&flags.sources, "sources", nil, "comma-separated sources to run (overrides config)")
		f.DurationVar(&flags.timeout, "timeout", time.Hour, "upper bound for the whole run")
	}
	probeCmd.Flags().StringVar(&flags.role, "role", "", "role to search for (defaults to the first configured role)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(probeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
