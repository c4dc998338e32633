package dedup

import (
	"go-jobscout-automation/internal/models"
)

// SeenSet tracks posting fingerprints for one run. It is owned by the run
// orchestrator and has a single writer, so it carries no lock.
type SeenSet struct {
	seen map[string]struct{}
}

func New() *SeenSet {
	return &SeenSet{seen: make(map[string]struct{})}
}

// Admit records p and reports whether its fingerprint was new.
func (s *SeenSet) Admit(p models.Posting) bool {
	key := p.Fingerprint()
	if _, exists := s.seen[key]; exists {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

func (s *SeenSet) Len() int {
	return len(s.seen)
}
