package results

import (
	"context"
	"sort"
	"sync"

	"github.com/fadedpez/cardlab/internal/types"
	"github.com/fadedpez/cardlab/pkg/entities"
)

// MemoryRepository implements Repository with in-memory storage
type MemoryRepository struct {
	mu   sync.RWMutex
	runs map[string]*entities.ExperimentRun
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		runs: make(map[string]*entities.ExperimentRun),
	}
}

// SaveRun stores a copy of run
func (r *MemoryRepository) SaveRun(ctx context.Context, run *entities.ExperimentRun) error {
	if run == nil || run.ID == "" {
		return types.NewError(types.ErrInvalidArgument, "run must have an ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *run
	r.runs[run.ID] = &stored
	return nil
}

// GetRun retrieves a run by ID
func (r *MemoryRepository) GetRun(ctx context.Context, id string) (*entities.ExperimentRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, types.Errorf(types.ErrNotFound, "run %s not found", id)
	}
	found := *run
	return &found, nil
}

// ListRuns returns runs newest first
func (r *MemoryRepository) ListRuns(ctx context.Context, kind entities.ExperimentKind, limit int) ([]*entities.ExperimentRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runs := make([]*entities.ExperimentRun, 0, len(r.runs))
	for _, run := range r.runs {
		if kind != "" && run.Kind != kind {
			continue
		}
		found := *run
		runs = append(runs, &found)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Close is a no-op for the memory repository
func (r *MemoryRepository) Close() error {
	return nil
}
