package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

// StripTags returns the text content of an HTML fragment.
func StripTags(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return CleanText(doc.Text())
}

type LinkRule struct {
	// Marker must appear in the canonical URL, e.g. "/jobs/view/".
	Marker string
	// KeepQuery lists query keys that identify the listing and survive canonicalization.
	KeepQuery []string
}

// Canonicalize resolves raw against base and drops the fragment and every
// query parameter not listed in keep.
func Canonicalize(raw, base string, keep []string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.SplitN(raw, "?", 2)[0]
	}
	if !u.IsAbs() && base != "" {
		if b, err := url.Parse(base); err == nil {
			u = b.ResolveReference(u)
		}
	}

	q := url.Values{}
	src := u.Query()
	for _, k := range keep {
		if v := src.Get(k); v != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
