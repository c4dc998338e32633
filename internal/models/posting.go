package models

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"go-jobscout-automation/internal/errors"
)

type Source string

const (
	SourceLinkedIn Source = "LinkedIn"
	SourceIndeed   Source = "Indeed"
	SourceBayt     Source = "Bayt"
)

// Sources lists every known source tag in run-log order.
var Sources = []Source{SourceLinkedIn, SourceIndeed, SourceBayt}

type WorkMode string

const (
	WorkModeRemote  WorkMode = "Remote"
	WorkModeHybrid  WorkMode = "Hybrid"
	WorkModeOffline WorkMode = "Offline"
)

var WorkModes = []WorkMode{WorkModeRemote, WorkModeHybrid, WorkModeOffline}

// Candidate is what the extractor could pull out of one listing element.
// Every field may be empty.
type Candidate struct {
	Source      Source
	Title       string
	Company     string
	Location    string
	Link        string
	PostedAt    string
	Description string
	Salary      string
	CareerLevel string
}

// Posting is a normalized listing. Build it with NewPosting and treat it as
// a value; nothing in this module mutates a Posting after construction.
type Posting struct {
	CompanyName        string
	Source             Source
	Title              string
	WorkMode           WorkMode
	ListingURL         string
	PostedAt           string
	Location           string
	DescriptionSnippet *string
	SalaryInfo         *string
	CareerLevel        *string
}

func NewPosting(c Candidate, mode WorkMode) (Posting, error) {
	p := Posting{
		CompanyName:        strings.TrimSpace(c.Company),
		Source:             c.Source,
		Title:              strings.TrimSpace(c.Title),
		WorkMode:           mode,
		ListingURL:         strings.TrimSpace(c.Link),
		PostedAt:           strings.TrimSpace(c.PostedAt),
		Location:           strings.TrimSpace(c.Location),
		DescriptionSnippet: optional(c.Description),
		SalaryInfo:         optional(c.Salary),
		CareerLevel:        optional(c.CareerLevel),
	}

	switch {
	case p.Title == "":
		return Posting{}, errors.Rejected("empty title")
	case p.CompanyName == "":
		return Posting{}, errors.Rejected("empty company")
	case p.ListingURL == "":
		return Posting{}, errors.Rejected("empty link")
	case p.Source == "":
		return Posting{}, errors.Rejected("empty source")
	case p.PostedAt == "":
		return Posting{}, errors.Rejected("empty posted date")
	case p.Location == "":
		return Posting{}, errors.Rejected("empty location")
	case p.WorkMode == "":
		return Posting{}, errors.Rejected("empty work mode")
	}
	return p, nil
}

// Fingerprint identifies a posting by company, title and source. The URL is
// not part of the key.
func (p Posting) Fingerprint() string {
	sum := md5.Sum([]byte(p.CompanyName + "_" + p.Title + "_" + string(p.Source)))
	return hex.EncodeToString(sum[:])
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
