package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	relativeRegex = regexp.MustCompile(`(?i)\b(\d+)\+?\s*(minute|hour|day|week|month)s?\s+ago\b`)
)

// NormalizeDate keeps the calendar part of an ISO date or timestamp.
func NormalizeDate(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if isoDateRegex.MatchString(v) {
		if _, err := time.Parse(DateLayout, v[:10]); err == nil {
			return v[:10], true
		}
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.Format(DateLayout), true
	}
	return "", false
}

// ParseRelativeDate converts "Yesterday", "N days ago" and similar phrases
// into a calendar date relative to now.
func ParseRelativeDate(text string, now time.Time) (string, bool) {
	lower := strings.ToLower(CleanText(text))
	if lower == "" {
		return "", false
	}

	if strings.Contains(lower, "yesterday") {
		return now.AddDate(0, 0, -1).Format(DateLayout), true
	}
	if strings.Contains(lower, "today") || strings.Contains(lower, "just posted") || strings.Contains(lower, "just now") {
		return now.Format(DateLayout), true
	}

	match := relativeRegex.FindStringSubmatch(lower)
	if match == nil {
		return "", false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return "", false
	}
	switch match[2] {
	case "minute", "hour":
		return now.Format(DateLayout), true
	case "day":
		return now.AddDate(0, 0, -n).Format(DateLayout), true
	case "week":
		return now.AddDate(0, 0, -7*n).Format(DateLayout), true
	case "month":
		return now.AddDate(0, -n, 0).Format(DateLayout), true
	}
	return "", false
}
