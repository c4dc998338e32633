// Record-store contracts and the field mappings that feed them.

package store

import (
	"context"
	"fmt"
	"time"

	"go-jobscout-automation/internal/errors"
	"go-jobscout-automation/internal/models"
)

const ScrapedAtLayout = "2006-01-02 15:04:05"

// Record is one flat field → value row.
type Record map[string]any

// RecordStore accepts batched record creation for a table.
type RecordStore interface {
	CreateRecords(ctx context.Context, table string, records []Record) error
}

// RunLogStore accepts one aggregate record per run.
type RunLogStore interface {
	CreateRunRecord(ctx context.Context, record Record) error
}

// Accessor reads one field of a posting. Returning nil omits the field.
type Accessor func(p models.Posting, scrapedAt time.Time) any

type Field struct {
	ID    string
	Value Accessor
}

// Schema maps postings onto store fields in a fixed order.
type Schema struct {
	fields []Field
}

func NewSchema(fields ...Field) (Schema, error) {
	if len(fields) == 0 {
		return Schema{}, errors.Config("schema has no fields")
	}
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if f.ID == "" {
			return Schema{}, errors.Config(fmt.Sprintf("schema field %d has no identifier", i))
		}
		if f.Value == nil {
			return Schema{}, errors.Config(fmt.Sprintf("schema field %q has no accessor", f.ID))
		}
		if seen[f.ID] {
			return Schema{}, errors.Config(fmt.Sprintf("schema field %q is mapped twice", f.ID))
		}
		seen[f.ID] = true
	}
	return Schema{fields: fields}, nil
}

func MustSchema(fields ...Field) Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

const (
	FieldCompanyName = "Company Name"
	FieldPlatform    = "Platform"
	FieldJobTitle    = "Job Title"
	FieldJobType     = "Job Type"
	FieldJobLink     = "Job Link"
	FieldPostedTime  = "Posted Time"
	FieldLocation    = "Location"
	FieldScrapedAt   = "Scraped At"
	FieldDescription = "Description"
	FieldSalaryInfo  = "Salary Info"
	FieldCareerLevel = "Career Level"
)

// PostingSchema is the jobs-table mapping. extended adds the optional
// description, salary and career level columns.
func PostingSchema(extended bool) Schema {
	fields := []Field{
		{FieldCompanyName, func(p models.Posting, _ time.Time) any { return p.CompanyName }},
		{FieldPlatform, func(p models.Posting, _ time.Time) any { return string(p.Source) }},
		{FieldJobTitle, func(p models.Posting, _ time.Time) any { return p.Title }},
		{FieldJobType, func(p models.Posting, _ time.Time) any { return string(p.WorkMode) }},
		{FieldJobLink, func(p models.Posting, _ time.Time) any { return p.ListingURL }},
		{FieldPostedTime, func(p models.Posting, _ time.Time) any { return p.PostedAt }},
		{FieldLocation, func(p models.Posting, _ time.Time) any { return p.Location }},
		{FieldScrapedAt, func(_ models.Posting, at time.Time) any { return at.Format(ScrapedAtLayout) }},
	}
	if extended {
		fields = append(fields,
			Field{FieldDescription, func(p models.Posting, _ time.Time) any { return optional(p.DescriptionSnippet) }},
			Field{FieldSalaryInfo, func(p models.Posting, _ time.Time) any { return optional(p.SalaryInfo) }},
			Field{FieldCareerLevel, func(p models.Posting, _ time.Time) any { return optional(p.CareerLevel) }},
		)
	}
	return MustSchema(fields...)
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func (s Schema) Record(p models.Posting, scrapedAt time.Time) Record {
	r := make(Record, len(s.fields))
	for _, f := range s.fields {
		if v := f.Value(p, scrapedAt); v != nil {
			r[f.ID] = v
		}
	}
	return r
}

// IDs lists the mapped field identifiers in order.
func (s Schema) IDs() []string {
	ids := make([]string, len(s.fields))
	for i, f := range s.fields {
		ids[i] = f.ID
	}
	return ids
}

// RunSchema holds the run-log destination field identifiers. Offline is
// optional; every other slot must be set.
type RunSchema struct {
	Date     string `yaml:"date"`
	Total    string `yaml:"total"`
	LinkedIn string `yaml:"linkedin"`
	Indeed   string `yaml:"indeed"`
	Bayt     string `yaml:"bayt"`
	Remote   string `yaml:"remote"`
	Hybrid   string `yaml:"hybrid"`
	Offline  string `yaml:"offline"`
	Duration string `yaml:"duration"`
	Status   string `yaml:"status"`
}

var DefaultRunSchema = RunSchema{
	Date:     "fldqwll19wwdBpG3M",
	Total:    "fld75Ml6lRzi83Iod",
	LinkedIn: "fldx5CO059lbEnKIf",
	Indeed:   "fld7YAtf2jthC36fY",
	Bayt:     "fldogbkGvR3MEFNgC",
	Remote:   "fldTnA12tUjiIUPdn",
	Hybrid:   "fldN1l14XK5oY6Go9",
	Duration: "fldaC8LvSCjqvXCrI",
	Status:   "fldmNEzhSN25NkC1O",
}

type runField struct {
	name     string
	id       string
	optional bool
	value    func(models.RunSummary) any
}

func (rs RunSchema) fields() []runField {
	mode := func(k models.WorkMode) func(models.RunSummary) any {
		return func(s models.RunSummary) any { return s.ByWorkMode[k] }
	}
	source := func(k models.Source) func(models.RunSummary) any {
		return func(s models.RunSummary) any { return s.BySource[k] }
	}
	return []runField{
		{"date", rs.Date, false, func(s models.RunSummary) any { return s.Date.Format("2006-01-02") }},
		{"total", rs.Total, false, func(s models.RunSummary) any { return s.Total }},
		{"linkedin", rs.LinkedIn, false, source(models.SourceLinkedIn)},
		{"indeed", rs.Indeed, false, source(models.SourceIndeed)},
		{"bayt", rs.Bayt, false, source(models.SourceBayt)},
		{"remote", rs.Remote, false, mode(models.WorkModeRemote)},
		{"hybrid", rs.Hybrid, false, mode(models.WorkModeHybrid)},
		{"offline", rs.Offline, true, mode(models.WorkModeOffline)},
		{"duration", rs.Duration, false, func(s models.RunSummary) any { return s.DurationSeconds() }},
		{"status", rs.Status, false, func(s models.RunSummary) any { return string(s.Status) }},
	}
}

func (rs RunSchema) Validate() error {
	seen := make(map[string]string)
	for _, f := range rs.fields() {
		if f.id == "" {
			if f.optional {
				continue
			}
			return errors.Config(fmt.Sprintf("run schema: %s field id is empty", f.name))
		}
		if other, dup := seen[f.id]; dup {
			return errors.Config(fmt.Sprintf("run schema: %s and %s share field id %q", other, f.name, f.id))
		}
		seen[f.id] = f.name
	}
	return nil
}

// Record maps a summary onto the run-log fields.
func (rs RunSchema) Record(s models.RunSummary) Record {
	r := make(Record, 10)
	for _, f := range rs.fields() {
		if f.id == "" {
			continue
		}
		r[f.id] = f.value(s)
	}
	return r
}
