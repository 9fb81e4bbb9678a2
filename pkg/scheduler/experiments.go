package scheduler

import (
	"context"
	"time"

	"github.com/fadedpez/cardlab/internal/logging"
	"github.com/fadedpez/cardlab/pkg/entities"
)

// RunCounter counts indexed experiment runs, e.g. results.ElasticsearchRepository
type RunCounter interface {
	CountRuns(ctx context.Context, kind entities.ExperimentKind) (int, error)
}

// ExperimentScheduler runs experiments unattended at a fixed interval
type ExperimentScheduler struct {
	scheduler *Scheduler
	logger    *logging.Logger
	counter   RunCounter
}

// NewExperimentScheduler creates a scheduler. counter may be nil.
func NewExperimentScheduler(logger *logging.Logger, counter RunCounter) *ExperimentScheduler {
	if logger == nil {
		logger = logging.Discard
	}
	return &ExperimentScheduler{
		scheduler: NewScheduler(logger),
		logger:    logger,
		counter:   counter,
	}
}

// TaskName is the scheduler task name of an experiment kind
func TaskName(kind entities.ExperimentKind) string {
	return "experiment_" + string(kind)
}

// Schedule runs run every interval
func (s *ExperimentScheduler) Schedule(kind entities.ExperimentKind, interval time.Duration, run func(context.Context) error) error {
	return s.scheduler.AddTask(TaskName(kind), interval, func(ctx context.Context) error {
		if err := run(ctx); err != nil {
			return err
		}
		s.logIndexed(ctx, kind)
		return nil
	})
}

func (s *ExperimentScheduler) logIndexed(ctx context.Context, kind entities.ExperimentKind) {
	if s.counter == nil {
		return
	}
	count, err := s.counter.CountRuns(ctx, kind)
	if err != nil {
		s.logger.Warn("Failed to count %s runs: %v", kind, err)
		return
	}
	s.logger.Info("%d %s runs indexed so far", count, kind)
}

// Runs returns how many times kind has been run
func (s *ExperimentScheduler) Runs(kind entities.ExperimentKind) int {
	return s.scheduler.Runs(TaskName(kind))
}

// Start starts the scheduled experiments
func (s *ExperimentScheduler) Start(ctx context.Context) {
	s.scheduler.Start(ctx)
}

// Stop stops the scheduled experiments and waits for them to return
func (s *ExperimentScheduler) Stop() {
	s.scheduler.Stop()
}
