// Rendering capability consumed by the adapters.
// Two backends: playwright (live pages) and goquery (static HTML).

package browser

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound means a selector or attribute matched nothing. It is kept
	// apart from an element whose text happens to be empty.
	ErrNotFound = errors.New("element not found")

	// ErrClosed means the browsing session is gone and no further
	// navigation on this page can succeed.
	ErrClosed = errors.New("browser page closed")
)

// Element is one node of a rendered document.
type Element interface {
	Find(selector string) (Element, error)
	FindAll(selector string) ([]Element, error)
	Text() (string, error)
	InnerHTML() (string, error)
	Attribute(name string) (string, error)
	Click(ctx context.Context) error
}

// Page is a navigable document whose dynamic content has settled after
// Navigate returns.
type Page interface {
	Navigate(ctx context.Context, url string) error
	URL() string
	ScrollToBottom(ctx context.Context) error
	WaitFor(ctx context.Context, selector string, timeout time.Duration) (Element, error)
	FindAll(selector string) ([]Element, error)
}

// Screenshotter is implemented by pages that can capture debug images.
type Screenshotter interface {
	Screenshot(name string) (string, error)
}
