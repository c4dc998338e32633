package extract

import (
	"strings"

	"go-jobscout-automation/internal/browser"
)

// Text reads the visible text of the first match, falling back to its
// markup with tags stripped when the visible text is empty.
func Text(selector string) Strategy {
	return func(el browser.Element, _ *Input) (string, bool) {
		sub, err := el.Find(selector)
		if err != nil {
			return "", false
		}
		return readText(sub)
	}
}

func readText(el browser.Element) (string, bool) {
	if s, err := el.Text(); err == nil {
		if s = CleanText(s); s != "" {
			return s, true
		}
	}
	if h, err := el.InnerHTML(); err == nil {
		if s := StripTags(h); s != "" {
			return s, true
		}
	}
	return "", false
}

func Attr(selector, name string) Strategy {
	return func(el browser.Element, _ *Input) (string, bool) {
		sub, err := el.Find(selector)
		if err != nil {
			return "", false
		}
		v, err := sub.Attribute(name)
		if err != nil {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}
}

// DatetimeAttr reads a machine datetime attribute and keeps the calendar date.
func DatetimeAttr(selector string) Strategy {
	return Map(Attr(selector, "datetime"), func(v string) (string, bool) {
		return NormalizeDate(v)
	})
}

// RelativeDate reads phrases like "3 days ago" and resolves them against the run date.
func RelativeDate(selector string) Strategy {
	return func(el browser.Element, in *Input) (string, bool) {
		v, ok := Text(selector)(el, in)
		if !ok {
			return "", false
		}
		return ParseRelativeDate(v, in.Now)
	}
}

// Href reads a link, resolves it against the page URL and canonicalizes it.
// When rule.Marker is set, links without it are skipped so the next strategy runs.
func Href(selector string, rule LinkRule) Strategy {
	return func(el browser.Element, in *Input) (string, bool) {
		sub, err := el.Find(selector)
		if err != nil {
			return "", false
		}
		href, err := sub.Attribute("href")
		if err != nil {
			return "", false
		}
		u := Canonicalize(href, in.BaseURL, rule.KeepQuery)
		if u == "" {
			return "", false
		}
		if rule.Marker != "" && !strings.Contains(u, rule.Marker) {
			return "", false
		}
		return u, true
	}
}

// BoldText scans bold or emphasized nodes and takes the first that is not
// the title and carries no boilerplate phrase.
func BoldText(selector string, deny []string) Strategy {
	return func(el browser.Element, in *Input) (string, bool) {
		nodes, err := el.FindAll(selector)
		if err != nil {
			return "", false
		}
		title := in.Values[FieldTitle]
		for _, n := range nodes {
			s, err := n.Text()
			if err != nil {
				continue
			}
			s = CleanText(s)
			if s == "" || s == title || containsAnyFold(s, deny) {
				continue
			}
			return s, true
		}
		return "", false
	}
}

// CardLines walks the card's text lines after the first and returns the
// first one that looks like a name rather than metadata.
func CardLines(deny, skipPrefixes []string) Strategy {
	return func(el browser.Element, in *Input) (string, bool) {
		text, err := el.Text()
		if err != nil {
			return "", false
		}
		lines := strings.Split(text, "\n")
		if len(lines) < 2 {
			return "", false
		}
		title := in.Values[FieldTitle]
		for _, line := range lines[1:] {
			line = CleanText(line)
			if line == "" || line == title || containsAnyFold(line, deny) || hasAnyPrefix(line, skipPrefixes) {
				continue
			}
			if _, isDate := ParseRelativeDate(line, in.Now); isDate {
				continue
			}
			return line, true
		}
		return "", false
	}
}

// Map post-processes the output of s. fn may veto the value.
func Map(s Strategy, fn func(string) (string, bool)) Strategy {
	return func(el browser.Element, in *Input) (string, bool) {
		v, ok := s(el, in)
		if !ok {
			return "", false
		}
		v, ok = fn(v)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
}

func containsAnyFold(s string, needles []string) bool {
	ls := strings.ToLower(s)
	for _, n := range needles {
		if n != "" && strings.Contains(ls, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
