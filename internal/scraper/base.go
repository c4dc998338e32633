// Shared driving loop for all listing sites.
// Each source only describes itself with a Site; Run does the rest.

package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-jobscout-automation/internal/browser"
	"go-jobscout-automation/internal/dedup"
	"go-jobscout-automation/internal/errors"
	"go-jobscout-automation/internal/extract"
	"go-jobscout-automation/internal/filter"
	"go-jobscout-automation/internal/models"

	"go.uber.org/zap"
)

// Scraper defines the interface that all platform scrapers must implement
type Scraper interface {
	// Name is the source tag stamped on every posting it yields
	Name() models.Source

	// Scrape runs every configured role on page. A non-nil error means the
	// adapter could not continue at all; role-level failures are in Stats.
	Scrape(ctx context.Context, page browser.Page, env Env) (Result, error)
}

// Env is what the orchestrator lends to an adapter for one run.
type Env struct {
	Classifier *filter.Classifier
	Seen       *dedup.SeenSet
	// Pace is the randomized pause between browser actions.
	Pace browser.Pacer
	// RoleDelay is the fixed wait between two role searches.
	RoleDelay time.Duration
	Now       func() time.Time
	Log       *zap.Logger
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e Env) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

// Options are the config-driven knobs every adapter accepts.
type Options struct {
	Roles []string
	// MaxPages bounds pagination or load-more clicks, whichever the site uses.
	MaxPages    int
	LoadTimeout time.Duration
}

// MaxPagesOr returns MaxPages, or def when unset.
func (o Options) MaxPagesOr(def int) int {
	if o.MaxPages > 0 {
		return o.MaxPages
	}
	return def
}

// Timeout returns LoadTimeout, or ten seconds when unset.
func (o Options) Timeout() time.Duration {
	if o.LoadTimeout > 0 {
		return o.LoadTimeout
	}
	return 10 * time.Second
}

// LoadMore configures the bounded scroll and "load more" iteration.
type LoadMore struct {
	Scrolls int
	// Buttons are tried in order on every click round.
	Buttons     []string
	MaxClicks   int
	WaitTimeout time.Duration
}

// Site describes one listing source.
type Site struct {
	Source models.Source
	Roles  []string
	// Pages is the number of result pages visited per role. Zero means one.
	Pages     int
	SearchURL func(role string, page int) string

	ReadySelector string
	LoadTimeout   time.Duration
	// Cards holds the primary listing selector followed by its fallbacks.
	Cards    []string
	LoadMore LoadMore

	Plan   extract.Plan
	Policy filter.Policy
}

type Stats struct {
	Roles       int
	RolesFailed int
	Cards       int
	Rejected    int
	Duplicates  int
	Accepted    int
}

type Result struct {
	Postings []models.Posting
	Stats    Stats
}

// AllRolesFailed reports whether the adapter attempted roles and none of
// them got past navigation.
func (r Result) AllRolesFailed() bool {
	return r.Stats.Roles > 0 && r.Stats.RolesFailed == r.Stats.Roles
}

// Run drives site role by role. Only a closed browser or a cancelled
// context stops it early; everything else is absorbed per role.
func Run(ctx context.Context, page browser.Page, site Site, env Env) (Result, error) {
	log := env.logger().With(zap.String("source", string(site.Source)))
	var res Result

	for i, role := range site.Roles {
		if i > 0 {
			if err := browser.Sleep(ctx, env.RoleDelay); err != nil {
				return res, err
			}
		}
		res.Stats.Roles++
		log.Info("🔑 Processing role", zap.String("role", role))

		err := runRole(ctx, page, site, env, role, &res, log)
		if err == nil {
			continue
		}
		if unrecoverable(ctx, err) {
			return res, err
		}
		res.Stats.RolesFailed++
		log.Warn("⚠️ Role aborted", zap.String("role", role), zap.Error(err))
	}

	log.Info("✅ Source finished",
		zap.Int("roles", res.Stats.Roles),
		zap.Int("roles_failed", res.Stats.RolesFailed),
		zap.Int("cards", res.Stats.Cards),
		zap.Int("rejected", res.Stats.Rejected),
		zap.Int("duplicates", res.Stats.Duplicates),
		zap.Int("accepted", res.Stats.Accepted),
	)
	return res, nil
}

func runRole(ctx context.Context, page browser.Page, site Site, env Env, role string, res *Result, log *zap.Logger) error {
	pages := site.Pages
	if pages < 1 {
		pages = 1
	}
	for p := 0; p < pages; p++ {
		if p > 0 {
			if err := env.Pace.Pause(ctx); err != nil {
				return err
			}
		}
		n, err := scrapePage(ctx, page, site, env, role, site.SearchURL(role, p), res, log)
		if err != nil {
			// Only the first page decides whether the role failed.
			if p == 0 || unrecoverable(ctx, err) {
				return err
			}
			log.Warn("⚠️ Pagination stopped", zap.String("role", role), zap.Int("page", p), zap.Error(err))
			return nil
		}
		if n == 0 {
			return nil
		}
	}
	return nil
}

func scrapePage(ctx context.Context, page browser.Page, site Site, env Env, role, url string, res *Result, log *zap.Logger) (int, error) {
	log.Debug("🌐 Visiting search page", zap.String("url", url))
	if err := page.Navigate(ctx, url); err != nil {
		return 0, errors.Navigation("navigate to "+url, err)
	}
	if site.ReadySelector != "" {
		if _, err := page.WaitFor(ctx, site.ReadySelector, site.LoadTimeout); err != nil {
			return 0, errors.Navigation("search page never became ready", err)
		}
	}
	if err := env.Pace.Pause(ctx); err != nil {
		return 0, err
	}
	if err := loadMore(ctx, page, site.LoadMore, env, log); err != nil {
		return 0, err
	}

	cards := locateCards(page, site.Cards, log)
	if len(cards) == 0 {
		log.Warn("⚠️ No listing cards found", zap.String("role", role))
		captureEmpty(page, site.Source, role, log)
		return 0, nil
	}
	log.Info("📄 Found cards", zap.String("role", role), zap.Int("count", len(cards)))

	in := extract.Input{Now: env.now(), BaseURL: page.URL()}
	for _, card := range cards {
		res.Stats.Cards++
		c, misses := site.Plan.Extract(card, in)
		if len(misses) > 0 {
			log.Debug("field miss", zap.String("title", c.Title), zap.Stringers("fields", misses))
		}

		p, err := env.Classifier.Accept(c, site.Policy)
		if err != nil {
			res.Stats.Rejected++
			log.Debug("❌ Listing rejected", zap.String("title", c.Title), zap.String("company", c.Company), zap.String("reason", errors.Reason(err)))
			continue
		}
		if !env.Seen.Admit(p) {
			res.Stats.Duplicates++
			log.Debug("duplicate listing", zap.String("title", p.Title), zap.String("company", p.CompanyName))
			continue
		}
		res.Stats.Accepted++
		res.Postings = append(res.Postings, p)
	}
	return len(cards), nil
}

// loadMore scrolls and clicks load-more controls up to the configured
// bounds. A control that never shows up just ends the loop.
func loadMore(ctx context.Context, page browser.Page, lm LoadMore, env Env, log *zap.Logger) error {
	for i := 0; i < lm.Scrolls; i++ {
		if err := page.ScrollToBottom(ctx); err != nil {
			if unrecoverable(ctx, err) {
				return err
			}
			log.Debug("scroll failed", zap.Error(err))
			break
		}
		if err := env.Pace.Pause(ctx); err != nil {
			return err
		}
	}

	if len(lm.Buttons) == 0 {
		return nil
	}
	for clicks := 0; clicks < lm.MaxClicks; clicks++ {
		btn, err := findControl(ctx, page, lm)
		if err == nil {
			err = btn.Click(ctx)
		}
		if err != nil {
			if unrecoverable(ctx, err) {
				return err
			}
			log.Debug("load-more loop ended", zap.Int("clicks", clicks), zap.Error(err))
			return nil
		}
		if err := env.Pace.Pause(ctx); err != nil {
			return err
		}
		if err := page.ScrollToBottom(ctx); err != nil && unrecoverable(ctx, err) {
			return err
		}
	}
	return nil
}

func findControl(ctx context.Context, page browser.Page, lm LoadMore) (browser.Element, error) {
	var lastErr error
	for _, sel := range lm.Buttons {
		el, err := page.WaitFor(ctx, sel, lm.WaitTimeout)
		if err == nil {
			return el, nil
		}
		if unrecoverable(ctx, err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// locateCards tries the primary selector, then each fallback, until one
// matches anything.
func locateCards(page browser.Page, selectors []string, log *zap.Logger) []browser.Element {
	for i, sel := range selectors {
		cards, err := page.FindAll(sel)
		if err != nil {
			log.Debug("card selector failed", zap.String("selector", sel), zap.Error(err))
			continue
		}
		if len(cards) == 0 {
			continue
		}
		if i > 0 {
			log.Info("using fallback card selector", zap.String("selector", sel), zap.Int("count", len(cards)))
		}
		return cards
	}
	return nil
}

func captureEmpty(page browser.Page, src models.Source, role string, log *zap.Logger) {
	shooter, ok := page.(browser.Screenshotter)
	if !ok {
		return
	}
	name := fmt.Sprintf("%s_%s_no_cards", strings.ToLower(string(src)), Slug(role))
	path, err := shooter.Screenshot(name)
	if err != nil {
		log.Debug("screenshot failed", zap.Error(err))
		return
	}
	if path != "" {
		log.Info("📸 Screenshot saved", zap.String("path", path))
	}
}

func unrecoverable(ctx context.Context, err error) bool {
	return errors.Is(err, browser.ErrClosed) || ctx.Err() != nil
}

// Slug lowercases a role and joins its words with dashes.
func Slug(role string) string {
	return strings.ToLower(strings.Join(strings.Fields(role), "-"))
}
