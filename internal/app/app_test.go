package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/cardlab/internal/config"
	discordmock "github.com/fadedpez/cardlab/internal/discord/mock"
	"github.com/fadedpez/cardlab/internal/experiments"
	"github.com/fadedpez/cardlab/internal/logging"
	"github.com/fadedpez/cardlab/internal/types"
	"github.com/fadedpez/cardlab/pkg/entities"
	"github.com/fadedpez/cardlab/pkg/services/experiment"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// esStub accepts every Elasticsearch request and counts indexed documents
type esStub struct {
	indexed atomic.Int32
}

func (e *esStub) RoundTrip(req *http.Request) (*http.Response, error) {
	status, body := http.StatusOK, `{}`
	switch {
	case req.Method == http.MethodHead:
		status = http.StatusNotFound
	case strings.Contains(req.URL.Path, "/_doc/"):
		e.indexed.Add(1)
		status, body = http.StatusCreated, `{"result":"created"}`
	case strings.HasSuffix(req.URL.Path, "/_count"):
		body = `{"count":1}`
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("X-Elastic-Product", "Elasticsearch")
	return &http.Response{StatusCode: status, Header: header, Body: io.NopCloser(strings.NewReader(body)), Request: req}, nil
}

type AppTestSuite struct {
	suite.Suite
	cfg *config.Config
	out *bytes.Buffer
	ctx context.Context
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (s *AppTestSuite) SetupTest() {
	dir := s.T().TempDir()
	s.cfg = &config.Config{
		Attempts:           20,
		Experiments:        2,
		SuitCount:          4,
		RoyalExperiments:   1,
		RoyalMaxAttempts:   1000,
		SweepMaxSuits:      2,
		Seed:               5,
		LogLevel:           "error",
		LogDir:             filepath.Join(dir, "logs"),
		StorageType:        config.StorageMemory,
		DataDir:            filepath.Join(dir, "data"),
		ScheduleInterval:   time.Hour,
		ScheduleExperiment: "fairness",
		Environment:        "development",
	}
	s.out = &bytes.Buffer{}
	s.ctx = context.Background()
}

func (s *AppTestSuite) newApp(opts ...Option) *App {
	opts = append([]Option{WithLogger(logging.Discard), WithOutput(s.out)}, opts...)
	a, err := New(s.ctx, s.cfg, opts...)
	s.Require().NoError(err)
	s.T().Cleanup(func() { a.Shutdown() })
	return a
}

func (s *AppTestSuite) logFiles() []string {
	entries, err := os.ReadDir(s.cfg.LogDir)
	s.Require().NoError(err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (s *AppTestSuite) TestSettingsFromConfig() {
	a := s.newApp()

	settings := a.Settings()

	s.Equal(experiment.Params{Attempts: 20, Experiments: 2, SuitCount: 4, FaceStart: 1, FaceEnd: 13, HandSize: 5}, settings.Params)
	s.Equal(1, settings.RoyalExperiments)
	s.Equal(2, settings.MaxSuits)
}

func (s *AppTestSuite) TestRunPublishesAndPersists() {
	a := s.newApp()

	err := a.Run(s.ctx, entities.KindFairness, a.Settings())

	s.Require().NoError(err)
	files := s.logFiles()
	s.Require().Len(files, 1)
	s.True(strings.HasPrefix(files[0], "proving-fairness-"))
	s.Contains(s.out.String(), "Final Average from 2 trials")

	runs, err := a.History(s.ctx, entities.KindFairness, 10)
	s.Require().NoError(err)
	s.Require().Len(runs, 1)
	s.Equal(int64(5), runs[0].Seed)
	s.False(runs[0].Failed)
}

func (s *AppTestSuite) TestRunFailureWritesErrorLog() {
	a := s.newApp()
	settings := a.Settings()
	settings.Params.FaceStart = 2
	settings.Params.FaceEnd = 6
	settings.Params.SuitCount = 1

	err := a.Run(s.ctx, entities.KindRoyalFlush, settings)

	s.True(types.IsCode(err, types.ErrUnboundedRetry))
	files := s.logFiles()
	s.Require().Len(files, 1)
	s.True(strings.HasPrefix(files[0], "error-royal-flush-"))

	runs, err := a.History(s.ctx, entities.KindRoyalFlush, 10)
	s.Require().NoError(err)
	s.Require().Len(runs, 1)
	s.True(runs[0].Failed)
}

func (s *AppTestSuite) TestSQLiteStorage() {
	s.cfg.StorageType = config.StorageSQLite
	a := s.newApp()

	s.Require().NoError(a.Run(s.ctx, entities.KindHands, a.Settings()))

	s.FileExists(s.cfg.SQLitePath())
	runs, err := a.History(s.ctx, "", 0)
	s.Require().NoError(err)
	s.Len(runs, 1)
}

func (s *AppTestSuite) TestSQLiteFallsBackToMemory() {
	s.cfg.StorageType = config.StorageSQLite
	blocker := filepath.Join(s.T().TempDir(), "file")
	s.Require().NoError(os.WriteFile(blocker, []byte("x"), 0644))
	s.cfg.DataDir = filepath.Join(blocker, "data")

	a := s.newApp()

	s.Require().NoError(a.Run(s.ctx, entities.KindFairness, a.Settings()))
	runs, err := a.History(s.ctx, "", 0)
	s.Require().NoError(err)
	s.Len(runs, 1)
}

func (s *AppTestSuite) TestElasticsearchIndexing() {
	s.cfg.Elasticsearch = config.ElasticsearchConfig{URL: "http://es.test:9200", IndexPrefix: "cardlab"}
	stub := &esStub{}
	a := s.newApp(WithElasticsearchTransport(stub))

	s.True(a.Indexed())
	s.Require().NoError(a.Run(s.ctx, entities.KindFairness, a.Settings()))
	s.Equal(int32(1), stub.indexed.Load())
}

func (s *AppTestSuite) TestDiscordNotification() {
	s.cfg.Discord = config.DiscordConfig{WebhookID: "hook-id", WebhookToken: "hook-token"}
	session := &discordmock.WebhookSession{}
	session.Test(s.T())
	session.On("WebhookExecute", "hook-id", "hook-token", false, mock.MatchedBy(func(p *discordgo.WebhookParams) bool {
		return p.Embeds[0].Title == "proving-fairness"
	})).Return(&discordgo.Message{}, nil).Once()
	a := s.newApp(WithWebhookSession(session))

	s.Require().NoError(a.Run(s.ctx, entities.KindFairness, a.Settings()))

	session.AssertExpectations(s.T())
}

func (s *AppTestSuite) TestScheduleRunsUntilCancelled() {
	a := s.newApp()
	ctx, cancel := context.WithCancel(s.ctx)

	done := make(chan error, 1)
	go func() {
		done <- a.Schedule(ctx, entities.KindFairness, a.Settings())
	}()

	s.Eventually(func() bool {
		runs, err := a.History(s.ctx, entities.KindFairness, 0)
		return err == nil && len(runs) == 1
	}, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(5 * time.Second):
		s.Fail("schedule did not return after cancel")
	}
}

func (s *AppTestSuite) TestScheduleUnknownExperiment() {
	a := s.newApp()

	err := a.Schedule(s.ctx, "blackjack", experiments.DefaultSettings())

	s.True(types.IsCode(err, types.ErrConfiguration))
}
