package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go-jobscout-automation/internal/models"
	"go-jobscout-automation/internal/store"
	"go-jobscout-automation/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func postings(n int) []models.Posting {
	out := make([]models.Posting, n)
	for i := range out {
		out[i] = models.Posting{
			CompanyName: fmt.Sprintf("Company %02d", i),
			Source:      models.SourceBayt,
			Title:       "Web Developer",
			WorkMode:    models.WorkModeOffline,
			ListingURL:  fmt.Sprintf("https://www.bayt.com/jobs/%d", i),
			PostedAt:    "2026-10-14",
			Location:    "Riyadh",
		}
	}
	return out
}

func TestPersistContinuesAfterFailedBatch(t *testing.T) {
	mem := memory.New()
	mem.FailCalls = map[int]error{2: errors.New("422 INVALID_VALUE_FOR_COLUMN")}
	p := store.NewPersister(mem, "Jobs", store.PostingSchema(false), zap.NewNop(), store.WithBatchDelay(0))

	res := p.Persist(context.Background(), postings(25))

	assert.Equal(t, 3, mem.Calls())
	assert.Equal(t, 3, res.Batches)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 15, res.Sent)
	require.Len(t, res.Errors, 1)

	saved := mem.Records("Jobs")
	require.Len(t, saved, 15)
	assert.Equal(t, "Company 00", saved[0][store.FieldCompanyName])
	assert.Equal(t, "Company 09", saved[9][store.FieldCompanyName])
	assert.Equal(t, "Company 20", saved[10][store.FieldCompanyName])
	assert.Equal(t, "Company 24", saved[14][store.FieldCompanyName])
}

func TestPersistDelaysOnlyBetweenBatches(t *testing.T) {
	mem := memory.New()
	p := store.NewPersister(mem, "Jobs", store.PostingSchema(false), nil, store.WithBatchDelay(30*time.Millisecond))

	start := time.Now()
	res := p.Persist(context.Background(), postings(10))
	assert.Equal(t, 1, res.Batches)
	assert.Less(t, time.Since(start), 30*time.Millisecond, "no delay after the last batch")

	start = time.Now()
	res = p.Persist(context.Background(), postings(21))
	assert.Equal(t, 3, res.Batches)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestPersistEmpty(t *testing.T) {
	mem := memory.New()
	res := store.NewPersister(mem, "Jobs", store.PostingSchema(false), nil).Persist(context.Background(), nil)
	assert.Zero(t, res.Batches)
	assert.Zero(t, mem.Calls())
}

func TestPostingSchemaRecord(t *testing.T) {
	salary := "$3,000"
	p := postings(1)[0]
	p.SalaryInfo = &salary
	at := time.Date(2026, 10, 14, 8, 5, 9, 0, time.UTC)

	basic := store.PostingSchema(false).Record(p, at)
	assert.Equal(t, store.Record{
		"Company Name": "Company 00",
		"Platform":     "Bayt",
		"Job Title":    "Web Developer",
		"Job Type":     "Offline",
		"Job Link":     "https://www.bayt.com/jobs/0",
		"Posted Time":  "2026-10-14",
		"Location":     "Riyadh",
		"Scraped At":   "2026-10-14 08:05:09",
	}, basic)

	extended := store.PostingSchema(true).Record(p, at)
	assert.Equal(t, "$3,000", extended["Salary Info"])
	assert.NotContains(t, extended, "Description")
	assert.NotContains(t, extended, "Career Level")
}

func TestNewSchemaValidates(t *testing.T) {
	value := func(models.Posting, time.Time) any { return "x" }

	_, err := store.NewSchema()
	assert.Error(t, err)

	_, err = store.NewSchema(store.Field{ID: "", Value: value})
	assert.Error(t, err)

	_, err = store.NewSchema(store.Field{ID: "a", Value: nil})
	assert.Error(t, err)

	_, err = store.NewSchema(store.Field{ID: "a", Value: value}, store.Field{ID: "a", Value: value})
	assert.Error(t, err)

	s, err := store.NewSchema(store.Field{ID: "a", Value: value}, store.Field{ID: "b", Value: value})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, s.IDs())
}

func TestRunSchemaRecord(t *testing.T) {
	start := time.Date(2026, 10, 14, 6, 0, 0, 0, time.UTC)
	postings := []models.Posting{
		{Source: models.SourceLinkedIn, WorkMode: models.WorkModeRemote},
		{Source: models.SourceBayt, WorkMode: models.WorkModeHybrid},
		{Source: models.SourceBayt, WorkMode: models.WorkModeOffline},
	}
	summary := models.Summarize("run-1", postings, start, start.Add(61234*time.Millisecond))

	require.NoError(t, store.DefaultRunSchema.Validate())
	rec := store.DefaultRunSchema.Record(summary)

	assert.Equal(t, store.Record{
		"fldqwll19wwdBpG3M": "2026-10-14",
		"fld75Ml6lRzi83Iod": 3,
		"fldx5CO059lbEnKIf": 1,
		"fld7YAtf2jthC36fY": 0,
		"fldogbkGvR3MEFNgC": 2,
		"fldTnA12tUjiIUPdn": 1,
		"fldN1l14XK5oY6Go9": 1,
		"fldaC8LvSCjqvXCrI": 61.23,
		"fldmNEzhSN25NkC1O": "Success",
	}, rec)

	withOffline := store.DefaultRunSchema
	withOffline.Offline = "fldOffline"
	assert.Equal(t, 1, withOffline.Record(summary)["fldOffline"])
}

func TestRunSchemaValidate(t *testing.T) {
	missing := store.DefaultRunSchema
	missing.Status = ""
	assert.Error(t, missing.Validate())

	dup := store.DefaultRunSchema
	dup.Offline = dup.Remote
	assert.Error(t, dup.Validate())
}

func TestTeeReportsOnlyPrimary(t *testing.T) {
	primary := memory.New()
	mirror := memory.New()
	mirror.FailCalls = map[int]error{1: errors.New("disk full")}
	mirror.FailRuns = errors.New("disk full")
	tee := &store.Tee{Primary: primary, PrimaryRun: primary, Mirrors: []store.Mirror{mirror}}

	ctx := context.Background()
	require.NoError(t, tee.CreateRecords(ctx, "Jobs", []store.Record{{"a": 1}}))
	require.NoError(t, tee.CreateRunRecord(ctx, store.Record{"status": "Success"}))
	assert.Len(t, primary.Records("Jobs"), 1)
	assert.Len(t, primary.Runs(), 1)
	assert.Equal(t, 1, mirror.RunCalls())

	primary.FailCalls = map[int]error{2: errors.New("503")}
	assert.Error(t, tee.CreateRecords(ctx, "Jobs", []store.Record{{"a": 2}}))
	assert.Len(t, mirror.Records("Jobs"), 1, "mirrors still receive the batch")
}
