// Strategy-chain field extraction for a single listing element.
// Each field has an ordered chain; the first strategy that yields a
// non-empty value wins and the rest of the chain is never touched.

package extract

import (
	"time"

	"go-jobscout-automation/internal/browser"
	"go-jobscout-automation/internal/models"
)

const DateLayout = "2006-01-02"

type Field int

const (
	FieldTitle Field = iota
	FieldCompany
	FieldLocation
	FieldLink
	FieldPostedAt
	FieldSalary
	FieldCareerLevel
	FieldDescription
)

var fieldNames = [...]string{"title", "company", "location", "link", "posted_at", "salary", "career_level", "description"}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "unknown"
	}
	return fieldNames[f]
}

type Values map[Field]string

// Input is what a strategy may read besides the element itself.
type Input struct {
	Now     time.Time
	BaseURL string
	// Values holds fields already extracted from this element, in field order.
	Values Values
}

// Strategy is one extraction attempt. It reports false when it found nothing usable.
type Strategy func(el browser.Element, in *Input) (string, bool)

type Chain []Strategy

func (c Chain) Run(el browser.Element, in *Input) (string, bool) {
	for _, s := range c {
		if v, ok := s(el, in); ok {
			return v, true
		}
	}
	return "", false
}

// Defaults fill fields no strategy could extract.
type Defaults struct {
	Location string
	// Company is only set for sources where the company is optional.
	Company string
}

type Plan struct {
	Source      models.Source
	Title       Chain
	Company     Chain
	Location    Chain
	Link        Chain
	PostedAt    Chain
	Salary      Chain
	CareerLevel Chain
	Description Chain
	Defaults    Defaults
}

// Extract runs every chain against el. Misses lists the fields that came up
// empty before defaults were applied; a miss never stops the other fields.
func (p Plan) Extract(el browser.Element, in Input) (c models.Candidate, misses []Field) {
	in.Values = make(Values, 8)
	chains := []struct {
		field Field
		chain Chain
	}{
		{FieldTitle, p.Title},
		{FieldCompany, p.Company},
		{FieldLocation, p.Location},
		{FieldLink, p.Link},
		{FieldPostedAt, p.PostedAt},
		{FieldSalary, p.Salary},
		{FieldCareerLevel, p.CareerLevel},
		{FieldDescription, p.Description},
	}
	for _, fc := range chains {
		if len(fc.chain) == 0 {
			continue
		}
		if v, ok := fc.chain.Run(el, &in); ok {
			in.Values[fc.field] = v
		} else {
			misses = append(misses, fc.field)
		}
	}

	c = models.Candidate{
		Source:      p.Source,
		Title:       in.Values[FieldTitle],
		Company:     in.Values[FieldCompany],
		Location:    in.Values[FieldLocation],
		Link:        in.Values[FieldLink],
		PostedAt:    in.Values[FieldPostedAt],
		Salary:      in.Values[FieldSalary],
		CareerLevel: in.Values[FieldCareerLevel],
		Description: in.Values[FieldDescription],
	}
	if c.PostedAt == "" {
		c.PostedAt = in.Now.Format(DateLayout)
	}
	if c.Location == "" {
		c.Location = p.Defaults.Location
	}
	if c.Company == "" {
		c.Company = p.Defaults.Company
	}
	return c, misses
}
