package results

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/fadedpez/cardlab/internal/types"
	"github.com/fadedpez/cardlab/pkg/entities"
	"github.com/stretchr/testify/suite"
)

// RepositoryTestSuite runs the same contract against every Repository
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func() Repository
	repo    Repository
}

func TestMemoryRepositorySuite(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{newRepo: func() Repository { return NewMemoryRepository() }})
}

func TestSQLiteRepositorySuite(t *testing.T) {
	s := &RepositoryTestSuite{}
	s.newRepo = func() Repository {
		repo, err := NewSQLiteRepository(filepath.Join(s.T().TempDir(), "nested", "runs.db"))
		s.Require().NoError(err)
		return repo
	}
	suite.Run(t, s)
}

func (s *RepositoryTestSuite) SetupTest() {
	s.repo = s.newRepo()
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.NoError(s.repo.Close())
}

func newRun(id string, kind entities.ExperimentKind, createdAt time.Time) *entities.ExperimentRun {
	return &entities.ExperimentRun{
		ID:        id,
		Kind:      kind,
		Params:    json.RawMessage(`{"attempts":1000}`),
		Result:    json.RawMessage(`{"mean":7.01}`),
		Mean:      7.01,
		Seed:      42,
		Duration:  1500 * time.Millisecond,
		CreatedAt: createdAt.UTC().Truncate(time.Second),
	}
}

func (s *RepositoryTestSuite) TestSaveAndGetRun() {
	ctx := context.Background()
	run := newRun("run-1", entities.KindFairness, time.Now())

	s.Require().NoError(s.repo.SaveRun(ctx, run))

	got, err := s.repo.GetRun(ctx, "run-1")
	s.Require().NoError(err)
	s.Equal(run.ID, got.ID)
	s.Equal(run.Kind, got.Kind)
	s.JSONEq(string(run.Params), string(got.Params))
	s.JSONEq(string(run.Result), string(got.Result))
	s.Equal(run.Mean, got.Mean)
	s.Equal(run.Seed, got.Seed)
	s.Equal(run.Duration, got.Duration)
	s.True(run.CreatedAt.Equal(got.CreatedAt))
	s.False(got.Failed)
}

func (s *RepositoryTestSuite) TestSaveFailedRun() {
	ctx := context.Background()
	run := newRun("run-failed", entities.KindRoyalFlush, time.Now())
	run.Result = nil
	run.Failed = true
	run.Error = "UNBOUNDED_RETRY: no royal flush"

	s.Require().NoError(s.repo.SaveRun(ctx, run))

	got, err := s.repo.GetRun(ctx, "run-failed")
	s.Require().NoError(err)
	s.True(got.Failed)
	s.Equal(run.Error, got.Error)
	s.Empty(got.Result)
}

func (s *RepositoryTestSuite) TestSaveRunReplaces() {
	ctx := context.Background()
	run := newRun("run-1", entities.KindFairness, time.Now())
	s.Require().NoError(s.repo.SaveRun(ctx, run))

	run.Mean = 6.5
	s.Require().NoError(s.repo.SaveRun(ctx, run))

	got, err := s.repo.GetRun(ctx, "run-1")
	s.Require().NoError(err)
	s.Equal(6.5, got.Mean)

	all, err := s.repo.ListRuns(ctx, "", 0)
	s.NoError(err)
	s.Len(all, 1)
}

func (s *RepositoryTestSuite) TestSaveRunRequiresID() {
	err := s.repo.SaveRun(context.Background(), &entities.ExperimentRun{})
	s.True(types.IsCode(err, types.ErrInvalidArgument))
}

func (s *RepositoryTestSuite) TestGetRunNotFound() {
	_, err := s.repo.GetRun(context.Background(), "missing")
	s.True(types.IsCode(err, types.ErrNotFound))
}

func (s *RepositoryTestSuite) TestListRuns() {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	kinds := []entities.ExperimentKind{entities.KindFairness, entities.KindHands, entities.KindFairness, entities.KindSweep, entities.KindFairness}
	for i, kind := range kinds {
		s.Require().NoError(s.repo.SaveRun(ctx, newRun(fmt.Sprintf("run-%d", i), kind, base.Add(time.Duration(i)*time.Minute))))
	}

	testCases := []struct {
		name     string
		kind     entities.ExperimentKind
		limit    int
		expected []string
	}{
		{name: "all kinds", kind: "", limit: 0, expected: []string{"run-4", "run-3", "run-2", "run-1", "run-0"}},
		{name: "limited", kind: "", limit: 2, expected: []string{"run-4", "run-3"}},
		{name: "fairness only", kind: entities.KindFairness, limit: 0, expected: []string{"run-4", "run-2", "run-0"}},
		{name: "no matches", kind: entities.KindRoyalFlush, limit: 10, expected: []string{}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			runs, err := s.repo.ListRuns(ctx, tc.kind, tc.limit)
			s.Require().NoError(err)

			ids := make([]string, 0, len(runs))
			for _, run := range runs {
				ids = append(ids, run.ID)
			}
			s.Equal(tc.expected, ids)
		})
	}
}
