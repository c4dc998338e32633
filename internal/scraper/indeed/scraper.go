package indeed

import (
	"context"
	"fmt"
	"net/url"

	"go-jobscout-automation/internal/browser"
	"go-jobscout-automation/internal/extract"
	"go-jobscout-automation/internal/filter"
	"go-jobscout-automation/internal/models"
	"go-jobscout-automation/internal/scraper"
)

const (
	searchURL = "https://sa.indeed.com/jobs?q=%s&l=Saudi+Arabia&fromage=1&start=%d"
	pageSize  = 10
)

type IndeedScraper struct {
	site scraper.Site
}

func NewIndeedScraper(opts scraper.Options) *IndeedScraper {
	return &IndeedScraper{site: Site(opts)}
}

func Site(opts scraper.Options) scraper.Site {
	// jk is the listing id; everything else on viewjob links is tracking.
	link := extract.LinkRule{Marker: "jk=", KeepQuery: []string{"jk"}}
	return scraper.Site{
		Source: models.SourceIndeed,
		Roles:  opts.Roles,
		Pages:  opts.MaxPagesOr(3),
		SearchURL: func(role string, page int) string {
			return fmt.Sprintf(searchURL, url.QueryEscape(role), page*pageSize)
		},
		ReadySelector: "body",
		LoadTimeout:   opts.Timeout(),
		Cards:         []string{".job_seen_beacon", ".result", "[data-jk]"},
		Plan: extract.Plan{
			Source: models.SourceIndeed,
			Title: extract.Chain{
				extract.Text("h2.jobTitle span[title]"),
				extract.Text("h2.jobTitle"),
				extract.Text("a.jcs-JobTitle"),
			},
			Company: extract.Chain{
				extract.Text("[data-testid='company-name']"),
				extract.Text(".companyName"),
			},
			Location: extract.Chain{
				extract.Text("[data-testid='text-location']"),
				extract.Text(".companyLocation"),
			},
			Link: extract.Chain{
				extract.Href("a.jcs-JobTitle", link),
				extract.Href("h2.jobTitle a", link),
				extract.Href("a[data-jk]", link),
			},
			PostedAt: extract.Chain{
				extract.RelativeDate("span.date"),
				extract.RelativeDate("[data-testid='myJobsStateDate']"),
			},
			Salary: extract.Chain{
				extract.Text(".salary-snippet-container"),
				extract.Text("[data-testid='attribute_snippet_testid']"),
			},
			Description: extract.Chain{extract.Text(".job-snippet")},
			Defaults:    extract.Defaults{Location: "Saudi Arabia"},
		},
		Policy: filter.Policy{RequireCompany: true, CheckRole: true},
	}
}

func (s *IndeedScraper) Name() models.Source {
	return models.SourceIndeed
}

func (s *IndeedScraper) Scrape(ctx context.Context, page browser.Page, env scraper.Env) (scraper.Result, error) {
	return scraper.Run(ctx, page, s.site, env)
}
