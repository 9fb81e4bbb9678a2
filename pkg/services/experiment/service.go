package experiment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fadedpez/cardlab/internal/logging"
	"github.com/fadedpez/cardlab/internal/types"
	"github.com/fadedpez/cardlab/pkg/entities"
	"github.com/fadedpez/cardlab/pkg/repositories/results"
	"github.com/google/uuid"
)

// DefaultMaxRoyalAttempts bounds a single royal flush search
const DefaultMaxRoyalAttempts = 10_000_000

// number of inner iterations between context checks
const cancelCheckInterval = 256

// Service runs Monte Carlo experiments over decks of cards
type Service struct {
	logger           *logging.Logger
	repository       results.Repository
	seed             int64
	maxRoyalAttempts int
	parallelSweep    bool
}

// Option configures a Service
type Option func(*Service)

// WithRepository persists every run into repo
func WithRepository(repo results.Repository) Option {
	return func(s *Service) {
		s.repository = repo
	}
}

// WithSeed fixes the base seed of every deck. Zero means a time based seed.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithMaxRoyalAttempts caps the attempts of a single royal flush trial
func WithMaxRoyalAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRoyalAttempts = n
		}
	}
}

// WithParallelSweep runs the suit counts of a sweep concurrently
func WithParallelSweep(parallel bool) Option {
	return func(s *Service) {
		s.parallelSweep = parallel
	}
}

// NewService creates a new experiment service
func NewService(logger *logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.Discard
	}
	s := &Service{
		logger:           logger,
		maxRoyalAttempts: DefaultMaxRoyalAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxRoyalAttempts returns the configured royal flush cap
func (s *Service) MaxRoyalAttempts() int {
	return s.maxRoyalAttempts
}

// History returns the most recent persisted runs of kind
func (s *Service) History(ctx context.Context, kind entities.ExperimentKind, limit int) ([]*entities.ExperimentRun, error) {
	if s.repository == nil {
		return nil, types.NewError(types.ErrConfiguration, "no results repository configured")
	}
	return s.repository.ListRuns(ctx, kind, limit)
}

func (s *Service) resolveSeed() int64 {
	if s.seed != 0 {
		return s.seed
	}
	return time.Now().UnixNano()
}

func newDeck(p Params, seed int64) *entities.Deck {
	return entities.NewDeck(p.FaceStart, p.FaceEnd, p.SuitCount, entities.WithSeed(seed))
}

func checkContext(ctx context.Context, i int) error {
	if i%cancelCheckInterval != 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return types.WrapError(types.ErrCancelled, "experiment interrupted", err)
	}
	return nil
}

// protect turns a panic inside fn into an INTERNAL_ERROR
func protect[T any](fn func() (*T, error)) (result *T, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = types.Errorf(types.ErrInternalError, "recovered panic: %v", r)
		}
	}()
	return fn()
}

// execute is the boundary every public experiment goes through. It logs,
// persists and wraps failures so callers only ever see EXPERIMENT_FAILED.
func execute[T any](ctx context.Context, s *Service, kind entities.ExperimentKind, params any, seed int64, mean func(*T) float64, fn func() (*T, error)) (*T, error) {
	start := time.Now()
	s.logger.Debug("Starting %s experiment (seed %d)", kind, seed)

	result, err := protect(fn)
	duration := time.Since(start)

	run := &entities.ExperimentRun{
		ID:        uuid.NewString(),
		Kind:      kind,
		Seed:      seed,
		Duration:  duration,
		CreatedAt: start.UTC(),
	}
	if encoded, encErr := json.Marshal(params); encErr == nil {
		run.Params = encoded
	}

	if err != nil {
		s.logger.Error("%s experiment failed after %s", kind, duration.Round(time.Millisecond))
		s.logger.LogError(err)
		run.Failed = true
		run.Error = err.Error()
		s.persist(ctx, run)
		return nil, types.WrapError(types.ErrExperimentFailed, fmt.Sprintf("%s experiment", kind), err)
	}

	if encoded, encErr := json.Marshal(result); encErr == nil {
		run.Result = encoded
	}
	run.Mean = mean(result)
	s.persist(ctx, run)

	s.logger.Info("%s experiment completed in %s", kind, duration.Round(time.Millisecond))
	return result, nil
}

func (s *Service) persist(ctx context.Context, run *entities.ExperimentRun) {
	if s.repository == nil {
		return
	}
	// a cancelled run is still recorded
	if err := s.repository.SaveRun(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Warn("Failed to save %s run %s: %v", run.Kind, run.ID, err)
	}
}
