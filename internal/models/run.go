package models

import (
	"math"
	"time"
)

type RunStatus string

const (
	RunSuccess RunStatus = "Success"
	RunFailed  RunStatus = "Failed"
)

type RunSummary struct {
	RunID      string
	Date       time.Time
	Total      int
	BySource   map[Source]int
	ByWorkMode map[WorkMode]int
	Duration   time.Duration
	Status     RunStatus
}

func Summarize(runID string, postings []Posting, start, end time.Time) RunSummary {
	s := emptySummary(runID, start, end, RunSuccess)
	s.Total = len(postings)
	for _, p := range postings {
		s.BySource[p.Source]++
		s.ByWorkMode[p.WorkMode]++
	}
	return s
}

// FailedSummary is the summary of a run that did not complete: every count
// is zero regardless of what was collected before the failure.
func FailedSummary(runID string, start, end time.Time) RunSummary {
	return emptySummary(runID, start, end, RunFailed)
}

func emptySummary(runID string, start, end time.Time, status RunStatus) RunSummary {
	s := RunSummary{
		RunID:      runID,
		Date:       start,
		BySource:   make(map[Source]int, len(Sources)),
		ByWorkMode: make(map[WorkMode]int, len(WorkModes)),
		Duration:   end.Sub(start),
		Status:     status,
	}
	for _, src := range Sources {
		s.BySource[src] = 0
	}
	for _, m := range WorkModes {
		s.ByWorkMode[m] = 0
	}
	return s
}

// DurationSeconds rounds the run duration to two decimals.
func (s RunSummary) DurationSeconds() float64 {
	return math.Round(s.Duration.Seconds()*100) / 100
}
