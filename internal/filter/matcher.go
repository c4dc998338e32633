package filter

import (
	"strings"
	"unicode"

	"go-jobscout-automation/internal/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalize strips combining marks and lowercases, so "Café" and "cafe"
// match the same term.
func normalize(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, str)
	if err != nil {
		result = str
	}
	return strings.ToLower(strings.Join(strings.Fields(result), " "))
}

// Denylist matches company names against ordered categories.
type Denylist struct {
	categories []Category
}

func NewDenylist(categories []Category) Denylist {
	d := Denylist{categories: make([]Category, 0, len(categories))}
	for _, c := range categories {
		terms := make([]string, 0, len(c.Terms))
		for _, term := range c.Terms {
			if n := normalize(term); n != "" {
				terms = append(terms, n)
			}
		}
		d.categories = append(d.categories, Category{Name: c.Name, Terms: terms})
	}
	return d
}

// Match reports the first category and term contained in company.
func (d Denylist) Match(company string) (category, term string, ok bool) {
	name := normalize(company)
	if name == "" {
		return "", "", false
	}
	for _, c := range d.categories {
		for _, t := range c.Terms {
			if strings.Contains(name, t) {
				return c.Name, t, true
			}
		}
	}
	return "", "", false
}

// Roles holds the target-role phrases a title must mention.
type Roles struct {
	phrases []string
}

func NewRoles(phrases []string) Roles {
	r := Roles{phrases: make([]string, 0, len(phrases))}
	for _, p := range phrases {
		if n := normalize(p); n != "" {
			r.phrases = append(r.phrases, n)
		}
	}
	return r
}

func (r Roles) Relevant(title string) bool {
	t := normalize(title)
	for _, p := range r.phrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}

func (r Roles) Len() int { return len(r.phrases) }

// ClassifyWorkMode looks for remote keywords first, then hybrid ones.
func ClassifyWorkMode(title, location, description string) models.WorkMode {
	text := normalize(title + " " + location + " " + description)
	if containsAny(text, remoteKeywords) {
		return models.WorkModeRemote
	}
	if containsAny(text, hybridKeywords) {
		return models.WorkModeHybrid
	}
	return models.WorkModeOffline
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
