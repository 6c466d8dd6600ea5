package consolidation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"order-consolidation/internal/apperr"
	"order-consolidation/internal/domain"
	"order-consolidation/internal/logx"
)

// DefaultRunTimeout caps a whole consolidation run.
const DefaultRunTimeout = 30 * time.Second

// Service runs consolidation over the current contents of the order store.
type Service struct {
	orders     OrderLister
	engine     *Engine
	publisher  ResultPublisher
	rec        Recorder
	logger     logx.Logger
	runTimeout time.Duration
	newRunID   func() string
}

// NewService creates a consolidation Service. publisher may be nil.
func NewService(
	orders OrderLister,
	engine *Engine,
	publisher ResultPublisher,
	rec Recorder,
	logger logx.Logger,
	runTimeout time.Duration,
) *Service {
	if runTimeout <= 0 {
		runTimeout = DefaultRunTimeout
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		orders:     orders,
		engine:     engine,
		publisher:  publisher,
		rec:        rec,
		logger:     logger,
		runTimeout: runTimeout,
		newRunID:   uuid.NewString,
	}
}

// Match snapshots all orders and returns the combinable pairs among them.
// Only a failure to read the snapshot is returned as an error (apperr.ErrStoreUnavailable);
// a run cut short by its deadline returns what it found with Partial set.
func (s *Service) Match(ctx context.Context) (domain.ConsolidationResult, error) {
	runID := s.newRunID()
	logger := s.logger.With(logx.String("run_id", runID))

	snapshot, err := s.orders.List(ctx, domain.OrderFilter{})
	if err != nil {
		s.rec.RunFinished(OutcomeFailed, 0, 0)
		logger.Error("consolidation snapshot failed", logx.Err(err))
		if !errors.Is(err, apperr.ErrStoreUnavailable) {
			err = fmt.Errorf("%w: %w", apperr.ErrStoreUnavailable, err)
		}
		return domain.ConsolidationResult{}, err
	}

	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	res := s.engine.Run(runCtx, snapshot)
	res.RunID = runID

	outcome := OutcomeComplete
	if res.Partial {
		outcome = OutcomePartial
	}
	s.rec.RunFinished(outcome, res.EvaluatedPairs, res.Duration)

	logger.Info("consolidation finished",
		logx.Int("orders", len(snapshot)),
		logx.Int("total_pairs", res.TotalPairs),
		logx.Int("evaluated_pairs", res.EvaluatedPairs),
		logx.Int("combinable_pairs", len(res.Pairs)),
		logx.Int("invalid_timestamps", res.InvalidTimestamps),
		logx.Int("route_lookup_failures", res.RouteLookupFailures),
		logx.Bool("partial", res.Partial),
		logx.Duration("duration", res.Duration),
	)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, res); err != nil {
			logger.Warn("consolidation result publish failed", logx.Err(err))
		}
	}
	return res, nil
}
