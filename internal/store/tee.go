package store

import (
	"context"

	"go.uber.org/zap"
)

// Mirror is a secondary backend that receives the same writes as the primary.
type Mirror interface {
	RecordStore
	RunLogStore
}

// Tee forwards writes to a primary store and best-effort mirrors. Only the
// primary's outcome is reported; mirror failures are logged.
type Tee struct {
	Primary    RecordStore
	PrimaryRun RunLogStore
	Mirrors    []Mirror
	Log        *zap.Logger
}

func (t *Tee) CreateRecords(ctx context.Context, table string, records []Record) error {
	err := t.Primary.CreateRecords(ctx, table, records)
	for _, m := range t.Mirrors {
		if merr := m.CreateRecords(ctx, table, records); merr != nil {
			t.logger().Warn("mirror write failed", zap.String("table", table), zap.Error(merr))
		}
	}
	return err
}

func (t *Tee) CreateRunRecord(ctx context.Context, record Record) error {
	err := t.PrimaryRun.CreateRunRecord(ctx, record)
	for _, m := range t.Mirrors {
		if merr := m.CreateRunRecord(ctx, record); merr != nil {
			t.logger().Warn("mirror run write failed", zap.Error(merr))
		}
	}
	return err
}

func (t *Tee) logger() *zap.Logger {
	if t.Log == nil {
		return zap.NewNop()
	}
	return t.Log
}
