package linkedin

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go-jobscout-automation/internal/browser"
	"go-jobscout-automation/internal/extract"
	"go-jobscout-automation/internal/filter"
	"go-jobscout-automation/internal/models"
	"go-jobscout-automation/internal/scraper"
)

const searchURL = "https://www.linkedin.com/jobs/search/?keywords=%s&location=Saudi%%20Arabia&f_TPR=r86400"

// Guest job search, last 24 hours, Saudi Arabia.
type LinkedInScraper struct {
	site scraper.Site
}

func NewLinkedInScraper(opts scraper.Options) *LinkedInScraper {
	return &LinkedInScraper{site: Site(opts)}
}

// Site is the LinkedIn description used by scraper.Run.
func Site(opts scraper.Options) scraper.Site {
	link := extract.LinkRule{Marker: "/jobs/view/"}
	return scraper.Site{
		Source: models.SourceLinkedIn,
		Roles:  opts.Roles,
		SearchURL: func(role string, _ int) string {
			return fmt.Sprintf(searchURL, url.PathEscape(role))
		},
		ReadySelector: "body",
		LoadTimeout:   opts.Timeout(),
		Cards: []string{
			".job-search-card",
			".base-search-card",
			".jobs-search-results__list-item",
			".job-result-card",
			".jobs-search__results-list li",
			"[data-job-id]",
			"[data-entity-urn*='jobPosting']",
		},
		LoadMore: scraper.LoadMore{
			Scrolls: 10,
			Buttons: []string{
				"button[aria-label='See more jobs']",
				".infinite-scroller__show-more-button",
				".jobs-search-results__pagination button",
			},
			MaxClicks:   opts.MaxPagesOr(10),
			WaitTimeout: 5 * time.Second,
		},
		Plan: extract.Plan{
			Source: models.SourceLinkedIn,
			Title: extract.Chain{
				extract.Text(".base-search-card__title"),
				extract.Text("h3"),
				extract.Text(".sr-only"),
			},
			Company: extract.Chain{
				extract.Text(".base-search-card__subtitle a"),
				extract.Text(".base-search-card__subtitle"),
				extract.Text("h4 a"),
				extract.Text("h4"),
			},
			Location: extract.Chain{
				extract.Text(".job-search-card__location"),
				extract.Text(".job-result-card__location"),
			},
			Link: extract.Chain{
				extract.Href(".base-card__full-link", link),
				extract.Href("a[href*='/jobs/view/']", link),
				extract.Href("a", link),
			},
			PostedAt: extract.Chain{
				extract.DatetimeAttr(".job-search-card__listdate--new"),
				extract.DatetimeAttr("time"),
				extract.DatetimeAttr("[datetime]"),
			},
			Defaults: extract.Defaults{Location: "Saudi Arabia"},
		},
		// Role relevance is skipped here to keep recall high.
		Policy: filter.Policy{RequireCompany: true, CheckRole: false},
	}
}

func (s *LinkedInScraper) Name() models.Source {
	return models.SourceLinkedIn
}

func (s *LinkedInScraper) Scrape(ctx context.Context, page browser.Page, env scraper.Env) (scraper.Result, error) {
	return scraper.Run(ctx, page, s.site, env)
}
