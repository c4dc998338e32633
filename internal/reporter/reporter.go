package reporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go-jobscout-automation/internal/models"
	"go-jobscout-automation/internal/store"

	"go.uber.org/zap"
)

// Notifier receives the run summary after it has been logged.
type Notifier interface {
	Notify(ctx context.Context, s models.RunSummary) error
}

// Reporter writes exactly one run-log record per run and prints the summary.
// Nothing it does can fail the run.
type Reporter struct {
	runs      store.RunLogStore
	schema    store.RunSchema
	out       io.Writer
	notifiers []Notifier
	log       *zap.Logger
}

type Option func(*Reporter)

func WithOutput(w io.Writer) Option {
	return func(r *Reporter) { r.out = w }
}

func WithNotifier(n Notifier) Option {
	return func(r *Reporter) {
		if n != nil {
			r.notifiers = append(r.notifiers, n)
		}
	}
}

func New(runs store.RunLogStore, schema store.RunSchema, log *zap.Logger, opts ...Option) (*Reporter, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &Reporter{runs: runs, schema: schema, out: os.Stdout, log: log}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Reporter) Report(ctx context.Context, s models.RunSummary) {
	r.writeRunLog(ctx, s)

	if _, err := io.WriteString(r.out, FormatSummary(s)); err != nil {
		r.log.Warn("failed to print summary", zap.Error(err))
	}

	for _, n := range r.notifiers {
		if err := n.Notify(ctx, s); err != nil {
			r.log.Warn("⚠️ Notifier failed", zap.Error(err))
		}
	}
}

func (r *Reporter) writeRunLog(ctx context.Context, s models.RunSummary) {
	if r.runs == nil {
		r.log.Warn("run-log store not configured, skipping run record")
		return
	}
	rec := r.schema.Record(s)
	if err := r.runs.CreateRunRecord(ctx, rec); err != nil {
		r.log.Error("❌ Failed to log script run", zap.String("run_id", s.RunID), zap.Error(err))
		return
	}
	r.log.Info("✅ Logged script run", zap.String("run_id", s.RunID), zap.Int("total", s.Total), zap.String("status", string(s.Status)))
}

// FormatSummary renders the console block printed at the end of every run.
func FormatSummary(s models.RunSummary) string {
	rule := strings.Repeat("=", 50)
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", rule)
	fmt.Fprintf(&b, "SCRAPING SUMMARY (%s)\n", s.Status)
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "Total jobs found: %d\n", s.Total)
	fmt.Fprintf(&b, "Remote jobs: %d\n", s.ByWorkMode[models.WorkModeRemote])
	fmt.Fprintf(&b, "Hybrid jobs: %d\n", s.ByWorkMode[models.WorkModeHybrid])
	fmt.Fprintf(&b, "Offline jobs: %d\n", s.ByWorkMode[models.WorkModeOffline])
	for _, src := range models.Sources {
		fmt.Fprintf(&b, "%s: %d\n", src, s.BySource[src])
	}
	fmt.Fprintf(&b, "Run duration: %.2fs\n", s.DurationSeconds())
	fmt.Fprintf(&b, "%s\n", rule)
	return b.String()
}
