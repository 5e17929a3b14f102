package store

import (
	"errors"
	"sync"

	"github.com/i474232898/weather-stickers/internal/stickers"
)

var (
	// ErrNotFound is returned when no run has been recorded yet.
	ErrNotFound = errors.New("no sync runs recorded")
)

// MemoryStore is a concurrency-safe in-memory history of sync run reports.
type MemoryStore struct {
	mu sync.RWMutex

	// oldest first
	reports []stickers.RunReport

	// max number of reports kept
	maxHistory int
}

// NewMemoryStore creates a new MemoryStore.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int) *MemoryStore {
	return &MemoryStore{maxHistory: maxHistory}
}

// Save appends a report and enforces retention.
func (s *MemoryStore) Save(report stickers.RunReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = append(s.reports, report)

	if s.maxHistory > 0 && len(s.reports) > s.maxHistory {
		over := len(s.reports) - s.maxHistory
		s.reports = append([]stickers.RunReport(nil), s.reports[over:]...)
	}
}

// Latest returns the most recent report.
func (s *MemoryStore) Latest() (stickers.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.reports) == 0 {
		return stickers.RunReport{}, ErrNotFound
	}
	return s.reports[len(s.reports)-1], nil
}

// List returns all kept reports, newest first.
func (s *MemoryStore) List() []stickers.RunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]stickers.RunReport, 0, len(s.reports))
	for i := len(s.reports) - 1; i >= 0; i-- {
		out = append(out, s.reports[i])
	}
	return out
}
