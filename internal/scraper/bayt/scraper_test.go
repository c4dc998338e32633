package bayt

import (
	"context"
	"testing"
	"time"

	"go-jobscout-automation/internal/browser"
	"go-jobscout-automation/internal/dedup"
	"go-jobscout-automation/internal/filter"
	"go-jobscout-automation/internal/models"
	"go-jobscout-automation/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const webDeveloperURL = "https://www.bayt.com/en/saudi-arabia/jobs/web-developer-jobs/?date=1"

const listing = `<html><body><ul>
<li class="has-pointer-d">
  <h2><a href="/en/saudi-arabia/jobs/web-developer-4711/?utm_source=x">Web Developer</a></h2>
  <div class="job-company-location-wrapper">
    <a class="t-default t-bold" href="/en/company/nova-tech">Nova Tech</a>
    <div class="t-mute t-small">Riyadh · Saudi Arabia</div>
  </div>
  <dl>
    <dt class="jb-label-salary">icon $2,000 - $3,000</dt>
    <dt class="jb-label-careerlevel">icon Mid career</dt>
  </dl>
  <div class="jb-descr">Hybrid role building dashboards.</div>
  <span data-automation-id="job-active-date">3 days ago</span>
</li>
<li class="has-pointer-d">
  <h2><a href="/en/saudi-arabia/jobs/graphic-designer-99/">Graphic Designer</a></h2>
  <b>Easy Apply</b>
  <b class="t-bold">Graphic Designer</b>
  <b>Pixel House</b>
</li>
<li class="has-pointer-d">
<h2><a href="/en/saudi-arabia/jobs/ui-ux-designer-7/">UI-UX Designer</a></h2>
<p>Yesterday</p>
<p>Seeking a creative mind</p>
<p>Lumen Agency</p>
</li>
<li class="has-pointer-d">
  <h2><a href="/en/saudi-arabia/jobs/frontend-developer-5/">Frontend Developer</a></h2>
</li>
<li class="has-pointer-d">
  <h2><a href="/en/saudi-arabia/jobs/accountant-1/">Accountant</a></h2>
  <a class="t-default t-bold">Ledger Co</a>
</li>
</ul></body></html>`

func testEnv() scraper.Env {
	return scraper.Env{
		Classifier: filter.Default(),
		Seen:       dedup.New(),
		Now:        func() time.Time { return time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC) },
		Log:        zap.NewNop(),
	}
}

func TestBaytScraper_Scrape(t *testing.T) {
	page := browser.NewStaticPage(map[string]string{webDeveloperURL: listing})
	s := NewBaytScraper(scraper.Options{Roles: []string{"Web Developer"}})
	assert.Equal(t, models.SourceBayt, s.Name())

	res, err := s.Scrape(context.Background(), page, testEnv())
	require.NoError(t, err)
	require.Len(t, res.Postings, 4)
	assert.Equal(t, 5, res.Stats.Cards)
	assert.Equal(t, 1, res.Stats.Rejected, "role filter drops the accountant")

	full := res.Postings[0]
	assert.Equal(t, "Web Developer", full.Title)
	assert.Equal(t, "Nova Tech", full.CompanyName)
	assert.Equal(t, "Riyadh, Saudi Arabia", full.Location)
	assert.Equal(t, "https://www.bayt.com/en/saudi-arabia/jobs/web-developer-4711/", full.ListingURL)
	assert.Equal(t, "2026-10-11", full.PostedAt)
	assert.Equal(t, models.WorkModeHybrid, full.WorkMode)
	assert.Equal(t, "$2,000 - $3,000", models.Deref(full.SalaryInfo))
	assert.Equal(t, "Mid career", models.Deref(full.CareerLevel))
	assert.Equal(t, "Hybrid role building dashboards.", models.Deref(full.DescriptionSnippet))

	bold := res.Postings[1]
	assert.Equal(t, "Pixel House", bold.CompanyName)
	assert.Equal(t, "Saudi Arabia", bold.Location)
	assert.Equal(t, "2026-10-14", bold.PostedAt)
	assert.Nil(t, bold.SalaryInfo)

	lines := res.Postings[2]
	assert.Equal(t, "Lumen Agency", lines.CompanyName)

	assert.Equal(t, "Unknown Company", res.Postings[3].CompanyName)
}

func TestBaytSearchURL(t *testing.T) {
	site := Site(scraper.Options{Roles: []string{"UI-UX Designer"}})
	assert.Equal(t, "https://www.bayt.com/en/saudi-arabia/jobs/ui-ux-designer-jobs/?date=1", site.SearchURL("UI-UX Designer", 0))
}

func TestBaytValueCleanup(t *testing.T) {
	v, ok := cityCountry("Jeddah")
	assert.True(t, ok)
	assert.Equal(t, "Jeddah", v)

	_, ok = salaryRange("Negotiable")
	assert.False(t, ok)

	v, _ = dropIcon("Senior")
	assert.Equal(t, "Senior", v)
}
