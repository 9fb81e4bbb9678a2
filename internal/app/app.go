// Package app wires configuration, storage, the experiment service and
// reporting into one object shared by every command.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fadedpez/cardlab/internal/config"
	"github.com/fadedpez/cardlab/internal/discord"
	"github.com/fadedpez/cardlab/internal/experiments"
	"github.com/fadedpez/cardlab/internal/logging"
	"github.com/fadedpez/cardlab/internal/types"
	"github.com/fadedpez/cardlab/pkg/entities"
	"github.com/fadedpez/cardlab/pkg/reporting"
	"github.com/fadedpez/cardlab/pkg/repositories/results"
	"github.com/fadedpez/cardlab/pkg/scheduler"
	"github.com/fadedpez/cardlab/pkg/services/experiment"
)

// App holds the application and its dependencies
type App struct {
	config    *config.Config
	logger    *logging.Logger
	repo      results.Repository
	index     *results.ElasticsearchRepository
	service   *experiment.Service
	publisher *reporting.Publisher
}

type options struct {
	logger      *logging.Logger
	out         io.Writer
	esTransport http.RoundTripper
	session     discord.WebhookSession
}

// Option configures New
type Option func(*options)

// WithLogger replaces the logger built from LOG_LEVEL
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOutput sends printed reports to w instead of standard output
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithElasticsearchTransport replaces the HTTP transport of the run index
func WithElasticsearchTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.esTransport = rt
	}
}

// WithWebhookSession replaces the Discord session used for notifications
func WithWebhookSession(session discord.WebhookSession) Option {
	return func(o *options) {
		o.session = session
	}
}

// New creates the application from cfg
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.NewLogger(cfg.Level())
	}
	logger := o.logger

	a := &App{
		config: cfg,
		logger: logger,
	}

	a.repo = a.openRepository()

	if cfg.ElasticsearchEnabled() {
		index, err := results.NewElasticsearchRepository(ctx, a.repo, &results.ElasticsearchConfig{
			URL:         cfg.Elasticsearch.URL,
			Username:    cfg.Elasticsearch.Username,
			Password:    cfg.Elasticsearch.Password,
			IndexPrefix: cfg.Elasticsearch.IndexPrefix,
			Transport:   o.esTransport,
		})
		if err != nil {
			logger.Warn("Failed to initialize Elasticsearch, runs will not be indexed: %v", err)
		} else {
			a.index = index
			a.repo = index
			logger.Info("Indexing runs into %s", index.IndexName())
		}
	}

	a.service = experiment.NewService(logger,
		experiment.WithRepository(a.repo),
		experiment.WithSeed(cfg.Seed),
		experiment.WithMaxRoyalAttempts(cfg.RoyalMaxAttempts),
		experiment.WithParallelSweep(cfg.SweepParallel),
	)

	pubOpts := []reporting.PublisherOption{
		reporting.WithCharts(cfg.Charts),
		reporting.WithOutput(o.out),
	}
	if cfg.DiscordEnabled() {
		session := o.session
		if session == nil {
			s, err := discord.NewSession()
			if err != nil {
				a.repo.Close()
				return nil, fmt.Errorf("failed to create Discord session: %w", err)
			}
			session = s
		}
		pubOpts = append(pubOpts, reporting.WithNotifier(reporting.NewDiscordNotifier(session, cfg.Discord.WebhookID, cfg.Discord.WebhookToken)))
	}
	a.publisher = reporting.NewPublisher(reporting.NewLogWriter(cfg.LogDir), logger, pubOpts...)

	return a, nil
}

// openRepository falls back to memory when SQLite cannot be opened
func (a *App) openRepository() results.Repository {
	if a.config.StorageType != config.StorageSQLite {
		a.logger.Info("Using in-memory repository for runs (data will be lost on exit)")
		return results.NewMemoryRepository()
	}

	dbPath := a.config.SQLitePath()
	a.logger.Info("Initializing SQLite repository at %s", dbPath)
	repo, err := results.NewSQLiteRepository(dbPath)
	if err != nil {
		a.logger.Warn("Failed to initialize SQLite repository: %v", err)
		a.logger.Info("Falling back to in-memory repository")
		return results.NewMemoryRepository()
	}
	return repo
}

// Logger returns the application logger
func (a *App) Logger() *logging.Logger {
	return a.logger
}

// Publisher returns the report publisher
func (a *App) Publisher() *reporting.Publisher {
	return a.publisher
}

// Indexed reports whether runs are indexed into Elasticsearch
func (a *App) Indexed() bool {
	return a.index != nil
}

// Settings returns the experiment sizes from the configuration
func (a *App) Settings() experiments.Settings {
	settings := experiments.DefaultSettings()
	settings.Params.Attempts = a.config.Attempts
	settings.Params.Experiments = a.config.Experiments
	settings.Params.SuitCount = a.config.SuitCount
	settings.RoyalExperiments = a.config.RoyalExperiments
	settings.MaxSuits = a.config.SweepMaxSuits
	return settings
}

// Registry builds the standard experiments for settings
func (a *App) Registry(settings experiments.Settings) *experiments.Registry {
	return experiments.NewStandardRegistry(a.service, settings)
}

// Run runs one experiment kind and publishes its report
func (a *App) Run(ctx context.Context, kind entities.ExperimentKind, settings experiments.Settings) error {
	return a.Registry(settings).Run(ctx, kind, a.publisher)
}

// History returns the latest persisted runs
func (a *App) History(ctx context.Context, kind entities.ExperimentKind, limit int) ([]*entities.ExperimentRun, error) {
	return a.service.History(ctx, kind, limit)
}

// Schedule runs the configured experiment every SCHEDULE_INTERVAL until ctx is done
func (a *App) Schedule(ctx context.Context, kind entities.ExperimentKind, settings experiments.Settings) error {
	if !kind.Valid() {
		return types.Errorf(types.ErrConfiguration, "unknown experiment %q", kind)
	}

	var counter scheduler.RunCounter
	if a.index != nil {
		counter = a.index
	}
	experimentScheduler := scheduler.NewExperimentScheduler(a.logger, counter)

	registry := a.Registry(settings)
	err := experimentScheduler.Schedule(kind, a.config.ScheduleInterval, func(ctx context.Context) error {
		return registry.Run(ctx, kind, a.publisher)
	})
	if err != nil {
		return err
	}

	experimentScheduler.Start(ctx)
	<-ctx.Done()
	experimentScheduler.Stop()
	return nil
}

// Shutdown releases the repository
func (a *App) Shutdown() error {
	return a.repo.Close()
}
