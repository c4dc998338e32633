package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	navigationTimeoutMs = 30000
	readTimeoutMs       = 1000
	clickTimeoutMs      = 5000
)

var launchArgs = []string{
	"--no-sandbox",
	"--disable-dev-shm-usage",
	"--disable-gpu",
	"--disable-extensions",
	"--disable-blink-features=AutomationControlled",
	"--window-size=1920,1080",
}

type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewPlaywright(ctx context.Context, headless bool) (*PlaywrightManager, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args:     launchArgs,
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}
	return &PlaywrightManager{pw: pw, browser: browser}, nil
}

// NewContext opens an isolated browsing context with a rotated user agent
// and the given cookies.
func (pm *PlaywrightManager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	browserCtx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(RandomUserAgent()),
		Viewport:  &playwright.Size{Width: 1920, Height: 1080},
		Locale:    playwright.String("en-US"),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}
	if err := browserCtx.AddInitScript(playwright.Script{Content: playwright.String(maskAutomation)}); err != nil {
		browserCtx.Close()
		return nil, fmt.Errorf("could not install init script: %w", err)
	}
	if len(cookies) > 0 {
		if err := browserCtx.AddCookies(cookies); err != nil {
			browserCtx.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}
	return browserCtx, nil
}

func (pm *PlaywrightManager) Close() error {
	var errs []error
	if pm.browser != nil {
		errs = append(errs, pm.browser.Close())
	}
	if pm.pw != nil {
		errs = append(errs, pm.pw.Stop())
	}
	return errors.Join(errs...)
}

// pwPage adapts a playwright page to Page.
type pwPage struct {
	page        playwright.Page
	screenshots *ScreenShotDebugger
}

func NewPage(page playwright.Page, screenshots *ScreenShotDebugger) Page {
	return &pwPage{page: page, screenshots: screenshots}
}

func (p *pwPage) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(navigationTimeoutMs),
	}); err != nil {
		return translate(err)
	}
	return nil
}

func (p *pwPage) URL() string {
	return p.page.URL()
}

func (p *pwPage) ScrollToBottom(ctx context.Context) error {
	if err := MouseJiggle(ctx, p.page); err != nil {
		return translate(err)
	}
	return translate(HumanScroll(ctx, p.page))
}

func (p *pwPage) WaitFor(ctx context.Context, selector string, timeout time.Duration) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loc := p.page.Locator(selector).First()
	err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return nil, fmt.Errorf("waiting for %q: %w", selector, ErrNotFound)
		}
		return nil, translate(err)
	}
	return locatorElement{loc: loc}, nil
}

func (p *pwPage) FindAll(selector string) ([]Element, error) {
	return wrapAll(p.page.Locator(selector).All())
}

func (p *pwPage) Screenshot(name string) (string, error) {
	if p.screenshots == nil {
		return "", nil
	}
	return p.screenshots.Capture(p.page, name)
}

// locatorElement adapts a playwright locator to Element.
type locatorElement struct {
	loc playwright.Locator
}

func (l locatorElement) Find(selector string) (Element, error) {
	loc := l.loc.Locator(selector).First()
	n, err := loc.Count()
	if err != nil {
		return nil, translate(err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return locatorElement{loc: loc}, nil
}

func (l locatorElement) FindAll(selector string) ([]Element, error) {
	return wrapAll(l.loc.Locator(selector).All())
}

func (l locatorElement) Text() (string, error) {
	s, err := l.loc.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(readTimeoutMs),
	})
	return s, translate(err)
}

func (l locatorElement) InnerHTML() (string, error) {
	s, err := l.loc.InnerHTML(playwright.LocatorInnerHTMLOptions{
		Timeout: playwright.Float(readTimeoutMs),
	})
	return s, translate(err)
}

func (l locatorElement) Attribute(name string) (string, error) {
	v, err := l.loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(readTimeoutMs),
	})
	if err != nil {
		return "", translate(err)
	}
	// playwright reports a missing attribute as an empty string
	if v == "" {
		return "", ErrNotFound
	}
	return v, nil
}

func (l locatorElement) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return translate(l.loc.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(clickTimeoutMs),
	}))
}

func wrapAll(locs []playwright.Locator, err error) ([]Element, error) {
	if err != nil {
		return nil, translate(err)
	}
	out := make([]Element, len(locs))
	for i, loc := range locs {
		out[i] = locatorElement{loc: loc}
	}
	return out, nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTargetClosed) {
		return fmt.Errorf("%w: %v", ErrClosed, err)
	}
	return err
}
