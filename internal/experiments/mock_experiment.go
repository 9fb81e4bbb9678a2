package experiments

import (
	"context"

	"github.com/fadedpez/cardlab/pkg/reporting"
	"github.com/stretchr/testify/mock"
)

// MockExperiment implements Experiment for testing
type MockExperiment struct {
	mock.Mock
}

func (m *MockExperiment) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockExperiment) Description() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockExperiment) Run(ctx context.Context) (reporting.Report, error) {
	args := m.Called(ctx)
	return args.Get(0).(reporting.Report), args.Error(1)
}

// MockPublisher implements Publisher for testing
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(report reporting.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockPublisher) PublishError(name string, err error) error {
	args := m.Called(name, err)
	return args.Error(0)
}
