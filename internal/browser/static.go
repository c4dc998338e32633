package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// StaticPage serves pre-rendered HTML keyed by URL. It backs fixture runs
// and tests; navigation to an unknown URL fails like an unreachable site.
type StaticPage struct {
	documents map[string]string
	doc       *goquery.Document
	current   string

	Navigations []string
	Clicks      []string
	Scrolls     int
}

func NewStaticPage(documents map[string]string) *StaticPage {
	return &StaticPage{documents: documents}
}

func (p *StaticPage) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.Navigations = append(p.Navigations, url)
	html, ok := p.documents[url]
	if !ok {
		p.doc = nil
		return fmt.Errorf("static page: no document for %s", url)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		p.doc = nil
		return fmt.Errorf("static page: parse %s: %w", url, err)
	}
	p.doc = doc
	p.current = url
	return nil
}

func (p *StaticPage) URL() string {
	return p.current
}

func (p *StaticPage) ScrollToBottom(ctx context.Context) error {
	p.Scrolls++
	return ctx.Err()
}

func (p *StaticPage) WaitFor(ctx context.Context, selector string, _ time.Duration) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.doc == nil {
		return nil, fmt.Errorf("waiting for %q: %w", selector, ErrNotFound)
	}
	sel := p.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("waiting for %q: %w", selector, ErrNotFound)
	}
	return &staticElement{sel: sel, selector: selector, page: p}, nil
}

func (p *StaticPage) FindAll(selector string) ([]Element, error) {
	if p.doc == nil {
		return nil, nil
	}
	return p.wrap(p.doc.Find(selector), selector), nil
}

func (p *StaticPage) wrap(sel *goquery.Selection, selector string) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &staticElement{sel: s, selector: selector, page: p})
	})
	return out
}

type staticElement struct {
	sel      *goquery.Selection
	selector string
	page     *StaticPage
}

func (e *staticElement) Find(selector string) (Element, error) {
	s := e.sel.Find(selector).First()
	if s.Length() == 0 {
		return nil, ErrNotFound
	}
	return &staticElement{sel: s, selector: selector, page: e.page}, nil
}

func (e *staticElement) FindAll(selector string) ([]Element, error) {
	return e.page.wrap(e.sel.Find(selector), selector), nil
}

func (e *staticElement) Text() (string, error) {
	return e.sel.Text(), nil
}

func (e *staticElement) InnerHTML() (string, error) {
	return e.sel.Html()
}

func (e *staticElement) Attribute(name string) (string, error) {
	v, ok := e.sel.Attr(name)
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (e *staticElement) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.page.Clicks = append(e.page.Clicks, e.selector)
	return nil
}
