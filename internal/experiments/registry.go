package experiments

import (
	"context"
	"fmt"
	"sync"

	"github.com/fadedpez/cardlab/internal/types"
	"github.com/fadedpez/cardlab/pkg/entities"
)

// Registry maps experiment kinds to experiments
type Registry struct {
	experiments map[entities.ExperimentKind]Experiment
	order       []entities.ExperimentKind
	mu          sync.RWMutex
}

// NewRegistry creates a new experiment registry
func NewRegistry() *Registry {
	return &Registry{
		experiments: make(map[entities.ExperimentKind]Experiment),
	}
}

// Register adds an experiment under kind
func (r *Registry) Register(kind entities.ExperimentKind, experiment Experiment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.experiments[kind]; exists {
		return types.NewError(types.ErrInvalidArgument, fmt.Sprintf("Experiment %s is already registered", kind))
	}

	r.experiments[kind] = experiment
	r.order = append(r.order, kind)
	return nil
}

// Get returns the experiment registered under kind
func (r *Registry) Get(kind entities.ExperimentKind) (Experiment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	experiment, exists := r.experiments[kind]
	if !exists {
		return nil, types.NewError(types.ErrNotFound, fmt.Sprintf("Experiment %s not found", kind))
	}

	return experiment, nil
}

// Kinds returns the registered kinds in registration order
func (r *Registry) Kinds() []entities.ExperimentKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]entities.ExperimentKind, len(r.order))
	copy(kinds, r.order)
	return kinds
}

// Run runs the experiment registered under kind and hands the outcome to
// publisher. The experiment error is returned after it has been published.
func (r *Registry) Run(ctx context.Context, kind entities.ExperimentKind, publisher Publisher) error {
	experiment, err := r.Get(kind)
	if err != nil {
		return err
	}

	report, runErr := experiment.Run(ctx)
	if runErr != nil {
		if err := publisher.PublishError(experiment.Name(), runErr); err != nil {
			return fmt.Errorf("error publishing %s failure: %w (run error: %v)", kind, err, runErr)
		}
		return runErr
	}

	return publisher.Publish(report)
}
