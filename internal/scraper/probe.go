package scraper

import (
	"context"
	"fmt"

	"go-jobscout-automation/internal/browser"
)

// SelectorCount is how many elements one card selector matched.
type SelectorCount struct {
	Selector string
	Count    int
}

// ProbeReport describes what a site's first search page looks like right now.
type ProbeReport struct {
	URL        string
	Ready      bool
	Selectors  []SelectorCount
	Screenshot string
}

// Probe opens the first search page for role and counts every card
// selector, primary and fallbacks alike. It is the manual check to run when
// a source starts returning nothing.
func Probe(ctx context.Context, page browser.Page, site Site, role string) (ProbeReport, error) {
	report := ProbeReport{URL: site.SearchURL(role, 0)}
	if err := page.Navigate(ctx, report.URL); err != nil {
		return report, fmt.Errorf("navigate %s: %w", report.URL, err)
	}
	if site.ReadySelector != "" {
		_, err := page.WaitFor(ctx, site.ReadySelector, site.LoadTimeout)
		report.Ready = err == nil
	} else {
		report.Ready = true
	}

	for _, sel := range site.Cards {
		elems, err := page.FindAll(sel)
		if err != nil {
			return report, fmt.Errorf("find %q: %w", sel, err)
		}
		report.Selectors = append(report.Selectors, SelectorCount{Selector: sel, Count: len(elems)})
	}

	if shooter, ok := page.(browser.Screenshotter); ok {
		path, err := shooter.Screenshot("probe_" + Slug(string(site.Source)+" "+role))
		if err == nil {
			report.Screenshot = path
		}
	}
	return report, nil
}
