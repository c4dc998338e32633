package browser

import (
	"context"
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
}

// RandomUserAgent picks one of the desktop Chrome user agents.
func RandomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// Pacer pauses for a random duration in [Min, Max] between browser actions.
// The zero value never sleeps.
type Pacer struct {
	Min time.Duration
	Max time.Duration
}

func (p Pacer) Pause(ctx context.Context) error {
	if p.Max <= 0 {
		return ctx.Err()
	}
	d := p.Min
	if p.Max > p.Min {
		d += time.Duration(rand.Int63n(int64(p.Max - p.Min + 1)))
	}
	return Sleep(ctx, d)
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RandomDelay waits for a random duration between min and max milliseconds
func RandomDelay(ctx context.Context, min, max int) error {
	return Pacer{Min: time.Duration(min) * time.Millisecond, Max: time.Duration(max) * time.Millisecond}.Pause(ctx)
}

// HumanScroll scrolls down in half-viewport steps, then lands on the bottom
// so lazy lists render their next chunk.
func HumanScroll(ctx context.Context, page playwright.Page) error {
	for i := 0; i < 3; i++ {
		if _, err := page.Evaluate("window.scrollBy(0, window.innerHeight / 2)"); err != nil {
			return err
		}
		if err := RandomDelay(ctx, 300, 800); err != nil {
			return err
		}
	}
	_, err := page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	return err
}

// MouseJiggle simulates random mouse movements to prevent idle detection
func MouseJiggle(ctx context.Context, page playwright.Page) error {
	viewportSize := page.ViewportSize()
	if viewportSize == nil || viewportSize.Width == 0 || viewportSize.Height == 0 {
		return nil
	}
	for i := 0; i < 3; i++ {
		x := rand.Intn(viewportSize.Width)
		y := rand.Intn(viewportSize.Height)
		if err := page.Mouse().Move(float64(x), float64(y)); err != nil {
			return err
		}
		if err := RandomDelay(ctx, 100, 300); err != nil {
			return err
		}
	}
	return nil
}

// maskAutomation hides the usual webdriver fingerprints before any page script runs.
const maskAutomation = `
Object.defineProperty(navigator, 'webdriver', {get: () => undefined});
Object.defineProperty(navigator, 'plugins', {get: () => [1, 2, 3, 4, 5]});
Object.defineProperty(navigator, 'languages', {get: () => ['en-US', 'en']});
`
