// Run orchestration: adapters → accumulate → persist → report.

package pipeline

import (
	"context"
	"fmt"
	"time"

	"go-jobscout-automation/internal/browser"
	"go-jobscout-automation/internal/dedup"
	"go-jobscout-automation/internal/errors"
	"go-jobscout-automation/internal/filter"
	"go-jobscout-automation/internal/models"
	"go-jobscout-automation/internal/reporter"
	"go-jobscout-automation/internal/scraper"
	"go-jobscout-automation/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const reportTimeout = 30 * time.Second

// Runner executes one end-to-end run. Adapters share the single Page and
// run one after the other.
type Runner struct {
	Scrapers   []scraper.Scraper
	Page       browser.Page
	Classifier *filter.Classifier
	Persister  *store.Persister
	Reporter   *reporter.Reporter

	Pace      browser.Pacer
	RoleDelay time.Duration
	Now       func() time.Time
	NewRunID  func() string
	Log       *zap.Logger
}

func (r *Runner) Run(ctx context.Context) models.RunSummary {
	now, runID, log := r.begin()
	start := now()
	log.Info("🚀 Starting run", zap.Int("sources", len(r.Scrapers)))

	postings, err := r.collect(ctx, now, log)

	var summary models.RunSummary
	if err != nil {
		log.Error("❌ Run failed", zap.Error(err))
		summary = models.FailedSummary(runID, start, now())
	} else {
		log.Info("Collected unique postings", zap.Int("count", len(postings)))
		if r.Persister != nil {
			r.Persister.Persist(ctx, postings)
		}
		summary = models.Summarize(runID, postings, start, now())
	}

	r.report(ctx, summary)
	return summary
}

// Abort reports a run that could not start, such as when the browser fails
// to launch. It still produces the single run-log record.
func (r *Runner) Abort(ctx context.Context, cause error) models.RunSummary {
	now, runID, log := r.begin()
	at := now()
	log.Error("❌ Run aborted before scraping", zap.Error(errors.RunFatal("run aborted", cause)))
	summary := models.FailedSummary(runID, at, at)
	r.report(ctx, summary)
	return summary
}

func (r *Runner) begin() (func() time.Time, string, *zap.Logger) {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	newID := r.NewRunID
	if newID == nil {
		newID = uuid.NewString
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	runID := newID()
	return now, runID, log.With(zap.String("run_id", runID))
}

// report sends the run record even when ctx was cancelled.
func (r *Runner) report(ctx context.Context, summary models.RunSummary) {
	if r.Reporter == nil {
		return
	}
	reportCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reportTimeout)
	defer cancel()
	r.Reporter.Report(reportCtx, summary)
}

// collect runs every adapter against one seen-set. It returns a RUN_FATAL
// error when nothing from the run can be trusted.
func (r *Runner) collect(ctx context.Context, now func() time.Time, log *zap.Logger) (postings []models.Posting, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			postings = nil
			err = errors.RunFatal(fmt.Sprintf("panic during run: %v", rec), nil)
		}
	}()

	classifier := r.Classifier
	if classifier == nil {
		classifier = filter.Default()
	}
	env := scraper.Env{
		Classifier: classifier,
		Seen:       dedup.New(),
		Pace:       r.Pace,
		RoleDelay:  r.RoleDelay,
		Now:        now,
		Log:        log,
	}

	failed := 0
	for _, s := range r.Scrapers {
		res, err := s.Scrape(ctx, r.Page, env)
		if err != nil {
			failed++
			log.Error("⚠️ Source aborted, keeping zero postings from it", zap.String("source", string(s.Name())), zap.Error(err))
			if ctx.Err() != nil {
				return nil, errors.RunFatal("run cancelled", ctx.Err())
			}
			continue
		}
		if res.AllRolesFailed() {
			failed++
		}
		postings = append(postings, res.Postings...)
	}

	if len(r.Scrapers) > 0 && failed == len(r.Scrapers) {
		return nil, errors.RunFatal("every source failed", nil)
	}
	return postings, nil
}
