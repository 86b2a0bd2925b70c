package store

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/fire-risk-dashboard/internal/firerisk"
)

var (
	// ErrNotFound is returned when no assessment is available.
	ErrNotFound = errors.New("no assessment available")
)

// MemoryStore is a concurrency-safe in-memory implementation of firerisk.Store.
type MemoryStore struct {
	mu sync.RWMutex

	// ordered by CheckedAt ascending
	assessments []firerisk.Assessment

	// retention configuration
	maxHistory int           // max number of assessments kept
	maxAge     time.Duration // optional max age for assessments

	clock clockwork.Clock
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited. A nil clock means the
// real clock.
func NewMemoryStore(maxHistory int, maxAge time.Duration, clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		clock:      clock,
	}
}

// SaveAssessment appends a new assessment and enforces retention.
func (s *MemoryStore) SaveAssessment(a firerisk.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assessments = append(s.assessments, a)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.assessments) > s.maxHistory {
		over := len(s.assessments) - s.maxHistory
		s.assessments = append([]firerisk.Assessment(nil), s.assessments[over:]...)
	}

	// Enforce retention by age. The newest assessment is always kept.
	if s.maxAge > 0 {
		cutoff := s.clock.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.assessments)-1; i++ {
			if !s.assessments[i].CheckedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			s.assessments = append([]firerisk.Assessment(nil), s.assessments[i:]...)
		}
	}
	return nil
}

// GetLatest returns the most recent assessment.
func (s *MemoryStore) GetLatest() (firerisk.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.assessments) == 0 {
		return firerisk.Assessment{}, ErrNotFound
	}
	return s.assessments[len(s.assessments)-1], nil
}

// GetRange returns all assessments checked between from and to (inclusive).
func (s *MemoryStore) GetRange(from, to time.Time) ([]firerisk.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []firerisk.Assessment
	for _, a := range s.assessments {
		if !a.CheckedAt.Before(from) && !a.CheckedAt.After(to) {
			result = append(result, a)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
