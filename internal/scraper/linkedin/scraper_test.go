package linkedin

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

const frontendURL = "https://www.linkedin.com/jobs/search/?keywords=frontend%20developer&location=Saudi%20Arabia&f_TPR=r86400"

const duplicateCards = `<html><body>
<ul class="jobs-search__results-list">
  <li><div class="base-search-card job-search-card">
    <a class="base-card__full-link" href="https://site/jobs/view/123?x=1"></a>
    <h3 class="base-search-card__title">Frontend Developer</h3>
    <h4 class="base-search-card__subtitle"><a href="/company/acme">Acme</a></h4>
    <span class="job-search-card__location">Riyadh, Remote</span>
    <time class="job-search-card__listdate--new" datetime="2026-10-13">1 day ago</time>
  </div></li>
  <li><div class="base-search-card job-search-card">
    <a class="base-card__full-link" href="https://site/jobs/view/123?y=2"></a>
    <h3 class="base-search-card__title">Frontend Developer</h3>
    <h4 class="base-search-card__subtitle"><a href="/company/acme">Acme</a></h4>
    <span class="job-search-card__location">Riyadh</span>
  </div></li>
</ul>
<button aria-label="See more jobs">See more jobs</button>
</body></html>`

func testEnv() scraper.Env {
	return scraper.Env{
		Classifier: filter.Default(),
		Seen:       dedup.New(),
		Now:        func() time.Time { return time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC) },
		Log:        zap.NewNop(),
	}
}

func TestLinkedInScraper_DuplicateListingsCollapse(t *testing.T) {
	page := browser.NewStaticPage(map[string]string{frontendURL: duplicateCards})
	s := NewLinkedInScraper(scraper.Options{Roles: []string{"frontend developer"}, MaxPages: 3})

	res, err := s.Scrape(context.Background(), page, testEnv())
	require.NoError(t, err)

	require.Len(t, res.Postings, 1)
	p := res.Postings[0]
	assert.Equal(t, "https://site/jobs/view/123", p.ListingURL)
	assert.Equal(t, models.WorkModeRemote, p.WorkMode)
	assert.Equal(t, "Acme", p.CompanyName)
	assert.Equal(t, models.SourceLinkedIn, p.Source)
	assert.Equal(t, "2026-10-13", p.PostedAt)

	assert.Equal(t, 2, res.Stats.Cards)
	assert.Equal(t, 1, res.Stats.Duplicates)
	assert.Equal(t, 1, res.Stats.Accepted)

	// load-more is bounded by MaxPages
	assert.Len(t, page.Clicks, 3)
	assert.Equal(t, 10+3, page.Scrolls)
}

const fallbackCards = `<html><body>
<ul>
  <li data-job-id="456">
    <h3><span>UI-UX</span> Designer</h3>
    <h4>Nova Studio</h4>
    <a href="/company/nova">Nova</a>
    <a href="/jobs/view/456/?refId=abc">apply</a>
  </li>
  <li data-job-id="789">
    <h3>Backend Developer</h3>
    <a href="/jobs/view/789/">apply</a>
  </li>
</ul>
</body></html>`

func TestLinkedInScraper_FallbackSelectors(t *testing.T) {
	page := browser.NewStaticPage(map[string]string{frontendURL: fallbackCards})
	s := NewLinkedInScraper(scraper.Options{Roles: []string{"frontend developer"}})

	res, err := s.Scrape(context.Background(), page, testEnv())
	require.NoError(t, err)

	require.Len(t, res.Postings, 1)
	p := res.Postings[0]
	assert.Equal(t, "UI-UX Designer", p.Title)
	assert.Equal(t, "Nova Studio", p.CompanyName)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/456/", p.ListingURL)
	assert.Equal(t, "Saudi Arabia", p.Location)
	assert.Equal(t, "2026-10-14", p.PostedAt)
	assert.Equal(t, models.WorkModeOffline, p.WorkMode)

	// the second card has no company and LinkedIn requires one
	assert.Equal(t, 1, res.Stats.Rejected)
	assert.Empty(t, page.Clicks)
}

func TestLinkedInScraper_FailedRoleDoesNotStopOthers(t *testing.T) {
	page := browser.NewStaticPage(map[string]string{frontendURL: duplicateCards})
	s := NewLinkedInScraper(scraper.Options{Roles: []string{"graphic designer", "frontend developer"}, MaxPages: 1})

	res, err := s.Scrape(context.Background(), page, testEnv())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Stats.Roles)
	assert.Equal(t, 1, res.Stats.RolesFailed)
	assert.Len(t, res.Postings, 1)
	assert.False(t, res.AllRolesFailed())
}
