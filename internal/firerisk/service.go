package firerisk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/i474232898/fire-risk-dashboard/internal/observability"
)

// previewRows is how many raw rows are kept for the missing-columns diagnostic.
const previewRows = 5

// Service runs refresh cycles (fetch, assess, store) and tracks the outcome
// of the most recent one.
type Service struct {
	source    Source
	predictor *Predictor
	store     Store
	station   Station

	clock   clockwork.Clock
	logger  *zap.Logger
	metrics *observability.Metrics

	mu     sync.RWMutex
	status CycleStatus
}

// NewService creates a new Service. A nil clock means the real clock.
func NewService(
	source Source,
	predictor *Predictor,
	store Store,
	station Station,
	clock clockwork.Clock,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		source:    source,
		predictor: predictor,
		store:     store,
		station:   station,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		status:    CycleStatus{Outcome: OutcomePending},
	}
}

// Refresh runs one cycle. A failed cycle never overwrites the last good
// assessment; its outcome is recorded in Status and returned as the error.
// There is no retry here: the next scheduled cycle is the retry.
func (s *Service) Refresh(ctx context.Context) error {
	start := s.clock.Now()
	cycleID := uuid.NewString()
	log := s.logger.With(zap.String("cycle_id", cycleID))

	status := CycleStatus{CycleID: cycleID, CheckedAt: start.UTC()}
	defer func() {
		s.metrics.RefreshTotal.WithLabelValues(string(status.Outcome)).Inc()
		s.metrics.RefreshDuration.Observe(s.clock.Since(start).Seconds())
		s.setStatus(status)
	}()

	table, err := s.source.Fetch(ctx)
	if err != nil {
		s.metrics.FeedFetchErrors.Inc()
		status.Outcome = OutcomeFetchError
		status.Error = err.Error()
		log.Error("feed fetch failed", zap.Error(err))
		return fmt.Errorf("fetch feed: %w", err)
	}

	pred, err := s.predictor.Assess(table)
	if err != nil {
		s.classifyFailure(&status, table, err)
		log.Warn("assessment failed",
			zap.String("outcome", string(status.Outcome)),
			zap.Strings("missing", status.Missing),
			zap.Error(err),
		)
		return err
	}

	if n := len(pred.Coerced); n > 0 {
		s.metrics.CellsCoerced.Add(float64(n))
		log.Warn("unparsable feature cells replaced by zero",
			zap.Int("cells", n),
			zap.Int("current_row_cells", len(pred.Current.Coerced)),
		)
	}

	assessment := Assessment{
		ID:        cycleID,
		CheckedAt: start.UTC(),
		Station:   s.station,
		Rows:      pred.Rows,
		Labels:    pred.Labels,
		Current:   pred.Current,
	}
	if err := s.store.SaveAssessment(assessment); err != nil {
		status.Outcome = OutcomeStoreError
		status.Error = err.Error()
		log.Error("store assessment failed", zap.Error(err))
		return fmt.Errorf("store assessment: %w", err)
	}

	s.metrics.RowsAssessed.Set(float64(pred.Rows))
	s.metrics.CurrentRiskCode.Set(float64(pred.Current.Code))
	status.Outcome = OutcomeOK

	log.Info("refresh completed",
		zap.Int("rows", pred.Rows),
		zap.String("risk", pred.Current.Label),
		zap.String("reading_time", pred.Current.RawTime),
	)
	return nil
}

func (s *Service) classifyFailure(status *CycleStatus, table Table, err error) {
	status.Error = err.Error()

	var missingErr *MissingColumnsError
	var tsErr *TimestampError
	switch {
	case errors.Is(err, ErrEmptyData):
		status.Outcome = OutcomeNoData
	case errors.As(err, &missingErr):
		status.Outcome = OutcomeMissingColumns
		status.Missing = missingErr.Missing
		preview := table.Head(previewRows)
		status.Preview = &preview
	case errors.As(err, &tsErr):
		status.Outcome = OutcomeTimestampError
	default:
		status.Outcome = OutcomeModelError
	}
}

func (s *Service) setStatus(st CycleStatus) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

// Status returns the outcome of the most recent cycle.
func (s *Service) Status() CycleStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Station returns the monitoring site.
func (s *Service) Station() Station {
	return s.station
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest() (Assessment, error) {
	return s.store.GetLatest()
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(from, to time.Time) ([]Assessment, error) {
	return s.store.GetRange(from, to)
}
