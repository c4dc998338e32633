package extract

import (
	"testing"
	"time"
)

func TestParseRelativeDate(t *testing.T) {
	now := time.Date(2026, 10, 14, 15, 4, 0, 0, time.UTC)

	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"Yesterday", "2026-10-13", true},
		{"1 day ago", "2026-10-13", true},
		{"3 days ago", "2026-10-11", true},
		{"30+ days ago", "2026-09-14", true},
		{"Posted 2 weeks ago", "2026-09-30", true},
		{"5 hours ago", "2026-10-14", true},
		{"Today", "2026-10-14", true},
		{"Just posted", "2026-10-14", true},
		{"Easy Apply", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParseRelativeDate(tt.text, now)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseRelativeDate(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"2026-10-12", "2026-10-12", true},
		{"2026-10-12T08:00:00Z", "2026-10-12", true},
		{"2026-13-40", "", false},
		{"last week", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeDate(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("NormalizeDate(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
