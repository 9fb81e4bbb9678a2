// Package results stores the final numeric output of experiment runs.
package results

import (
	"context"

	"github.com/fadedpez/cardlab/pkg/entities"
)

// Repository persists experiment runs
type Repository interface {
	// SaveRun stores a run, replacing any run with the same ID
	SaveRun(ctx context.Context, run *entities.ExperimentRun) error

	// GetRun loads a run by ID; a missing run is a NOT_FOUND error
	GetRun(ctx context.Context, id string) (*entities.ExperimentRun, error)

	// ListRuns returns the most recent runs, newest first. An empty kind
	// matches every kind and a non-positive limit means no limit.
	ListRuns(ctx context.Context, kind entities.ExperimentKind, limit int) ([]*entities.ExperimentRun, error)

	// Close releases any resources held by the repository
	Close() error
}
