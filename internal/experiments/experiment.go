// Package experiments registers the runnable experiments behind the CLI
// commands, the interactive menu and the scheduler.
package experiments

import (
	"context"

	"github.com/fadedpez/cardlab/pkg/reporting"
)

// Experiment is one runnable harness experiment
type Experiment interface {
	// Name is used for report and log file names
	Name() string

	// Description is shown in menus and help text
	Description() string

	// Run executes the experiment and builds its report
	Run(ctx context.Context) (reporting.Report, error)
}

// Publisher receives finished reports and failures
type Publisher interface {
	Publish(report reporting.Report) error
	PublishError(name string, err error) error
}

type experimentFunc struct {
	name        string
	description string
	run         func(ctx context.Context) (reporting.Report, error)
}

// NewExperiment wraps run as an Experiment
func NewExperiment(name, description string, run func(ctx context.Context) (reporting.Report, error)) Experiment {
	return &experimentFunc{name: name, description: description, run: run}
}

func (e *experimentFunc) Name() string        { return e.name }
func (e *experimentFunc) Description() string { return e.description }

func (e *experimentFunc) Run(ctx context.Context) (reporting.Report, error) {
	return e.run(ctx)
}
