package store

import (
	"context"
	"fmt"
	"time"

	"go-jobscout-automation/internal/errors"
	"go-jobscout-automation/internal/models"

	"go.uber.org/zap"
)

const (
	DefaultBatchSize  = 10
	DefaultBatchDelay = 200 * time.Millisecond
)

// Persister writes postings in fixed-size batches. A failed batch is logged
// and skipped; the remaining batches are still sent.
type Persister struct {
	store     RecordStore
	table     string
	schema    Schema
	batchSize int
	delay     time.Duration
	now       func() time.Time
	log       *zap.Logger
}

type PersisterOption func(*Persister)

func WithBatchSize(n int) PersisterOption {
	return func(p *Persister) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

func WithBatchDelay(d time.Duration) PersisterOption {
	return func(p *Persister) { p.delay = d }
}

func WithClock(now func() time.Time) PersisterOption {
	return func(p *Persister) { p.now = now }
}

func NewPersister(store RecordStore, table string, schema Schema, log *zap.Logger, opts ...PersisterOption) *Persister {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Persister{
		store:     store,
		table:     table,
		schema:    schema,
		batchSize: DefaultBatchSize,
		delay:     DefaultBatchDelay,
		now:       time.Now,
		log:       log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type PersistResult struct {
	Batches int
	Failed  int
	Sent    int
	Errors  []error
}

func (p *Persister) Persist(ctx context.Context, postings []models.Posting) PersistResult {
	var res PersistResult
	if len(postings) == 0 {
		return res
	}
	scrapedAt := p.now()

	for start := 0; start < len(postings); start += p.batchSize {
		end := min(start+p.batchSize, len(postings))
		batch := make([]Record, 0, end-start)
		for _, posting := range postings[start:end] {
			batch = append(batch, p.schema.Record(posting, scrapedAt))
		}

		res.Batches++
		if err := p.store.CreateRecords(ctx, p.table, batch); err != nil {
			werr := errors.BatchWrite(fmt.Sprintf("batch %d (%d records)", res.Batches, len(batch)), err)
			res.Failed++
			res.Errors = append(res.Errors, werr)
			p.log.Error("❌ Failed to save batch", zap.Int("batch", res.Batches), zap.Int("records", len(batch)), zap.Error(err))
		} else {
			res.Sent += len(batch)
			p.log.Info("💾 Saved batch", zap.Int("batch", res.Batches), zap.Int("records", len(batch)))
		}

		if end < len(postings) {
			if err := wait(ctx, p.delay); err != nil {
				p.log.Warn("persist interrupted", zap.Int("remaining", len(postings)-end), zap.Error(err))
				break
			}
		}
	}

	p.log.Info("Total postings saved", zap.Int("sent", res.Sent), zap.Int("total", len(postings)), zap.Int("failed_batches", res.Failed))
	return res
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
