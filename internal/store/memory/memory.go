package memory

import (
	"context"
	"sync"

	"go-jobscout-automation/internal/store"
)

// Store keeps records in memory. It backs dry runs and tests, and can be
// told to fail specific batch calls.
type Store struct {
	mu      sync.Mutex
	tables  map[string][]store.Record
	runs    []store.Record
	calls   int
	runCall int

	// FailCalls maps a 1-based CreateRecords call number to the error it returns.
	FailCalls map[int]error
	// FailRuns makes every CreateRunRecord call fail.
	FailRuns error
}

func New() *Store {
	return &Store{tables: make(map[string][]store.Record)}
}

func (s *Store) CreateRecords(ctx context.Context, table string, records []store.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if err := s.FailCalls[s.calls]; err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.tables[table] = append(s.tables[table], records...)
	return nil
}

func (s *Store) CreateRunRecord(ctx context.Context, record store.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runCall++
	if s.FailRuns != nil {
		return s.FailRuns
	}
	s.runs = append(s.runs, record)
	return nil
}

// Records returns what was stored for table.
func (s *Store) Records(table string) []store.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]store.Record(nil), s.tables[table]...)
}

func (s *Store) Runs() []store.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]store.Record(nil), s.runs...)
}

// Calls is the number of CreateRecords attempts.
func (s *Store) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// RunCalls is the number of CreateRunRecord attempts, failed ones included.
func (s *Store) RunCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runCall
}
