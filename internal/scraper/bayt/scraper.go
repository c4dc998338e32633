package bayt

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go-jobscout-automation/internal/browser"
	"go-jobscout-automation/internal/extract"
	"go-jobscout-automation/internal/filter"
	"go-jobscout-automation/internal/models"
	"go-jobscout-automation/internal/scraper"
)

const (
	searchURL      = "https://www.bayt.com/en/saudi-arabia/jobs/%s-jobs/?date=1"
	unknownCompany = "Unknown Company"
)

type BaytScraper struct {
	site scraper.Site
}

func NewBaytScraper(opts scraper.Options) *BaytScraper {
	return &BaytScraper{site: Site(opts)}
}

func Site(opts scraper.Options) scraper.Site {
	return scraper.Site{
		Source: models.SourceBayt,
		Roles:  opts.Roles,
		SearchURL: func(role string, _ int) string {
			return fmt.Sprintf(searchURL, url.PathEscape(scraper.Slug(role)))
		},
		ReadySelector: "body",
		LoadTimeout:   opts.Timeout(),
		Cards:         []string{".has-pointer-d"},
		Plan: extract.Plan{
			Source: models.SourceBayt,
			Title:  extract.Chain{extract.Text("h2 a")},
			Company: extract.Chain{
				extract.Text("a.t-default.t-bold"),
				extract.Text(".job-company-location-wrapper b"),
				extract.BoldText("b, .t-bold", []string{"Easy Apply", "Saudi nationals", "Mid career", "Senior", "Entry level"}),
				extract.CardLines([]string{"career", "Easy Apply", "Saudi nationals", "Saudi Arabia"}, []string{"$", "Seeking"}),
			},
			Location:    extract.Chain{extract.Map(extract.Text("div.t-mute.t-small"), cityCountry)},
			Link:        extract.Chain{extract.Href("h2 a", extract.LinkRule{})},
			PostedAt:    extract.Chain{extract.RelativeDate("span[data-automation-id='job-active-date']")},
			Salary:      extract.Chain{extract.Map(extract.Text("dt.jb-label-salary"), salaryRange)},
			CareerLevel: extract.Chain{extract.Map(extract.Text("dt.jb-label-careerlevel"), dropIcon)},
			Description: extract.Chain{extract.Text("div.jb-descr")},
			Defaults: extract.Defaults{
				Location: "Saudi Arabia",
				Company:  unknownCompany,
			},
		},
		Policy: filter.Policy{RequireCompany: false, CheckRole: true},
	}
}

// cityCountry turns "Riyadh · Saudi Arabia · 3 days ago" into "Riyadh, Saudi Arabia".
func cityCountry(s string) (string, bool) {
	parts := strings.Split(s, "·")
	if len(parts) < 2 {
		return s, true
	}
	return strings.TrimSpace(parts[0]) + ", " + strings.TrimSpace(parts[1]), true
}

// salaryRange keeps the amounts and drops the icon text before them.
func salaryRange(s string) (string, bool) {
	i := strings.Index(s, "$")
	if i < 0 {
		return "", false
	}
	return s[i:], true
}

// dropIcon removes the leading icon label from "icon Mid career".
func dropIcon(s string) (string, bool) {
	parts := strings.Fields(s)
	if len(parts) >= 2 {
		return strings.Join(parts[1:], " "), true
	}
	return s, true
}

func (s *BaytScraper) Name() models.Source {
	return models.SourceBayt
}

func (s *BaytScraper) Scrape(ctx context.Context, page browser.Page, env scraper.Env) (scraper.Result, error) {
	return scraper.Run(ctx, page, s.site, env)
}
