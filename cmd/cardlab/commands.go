package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fadedpez/cardlab/internal/app"
	"github.com/fadedpez/cardlab/internal/cli"
	"github.com/fadedpez/cardlab/internal/config"
	"github.com/fadedpez/cardlab/internal/types"
	"github.com/fadedpez/cardlab/pkg/db/migrations"
	"github.com/fadedpez/cardlab/pkg/entities"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/spf13/cobra"
)

// sizeFlags override the configured experiment sizes for one invocation
type sizeFlags struct {
	attempts         int
	experiments      int
	suits            int
	royalExperiments int
	maxSuits         int
	seed             int64
}

func (f *sizeFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.attempts, "attempts", 0, "attempts per experiment")
	cmd.Flags().IntVar(&f.experiments, "experiments", 0, "number of experiments")
	cmd.Flags().IntVar(&f.suits, "suits", 0, "suits in the deck")
	cmd.Flags().IntVar(&f.royalExperiments, "royal-experiments", 0, "royal flush searches")
	cmd.Flags().IntVar(&f.maxSuits, "max-suits", 0, "largest suit count swept by changes in chance")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed, 0 picks one from the clock")
}

// apply copies the flags the user actually set into cfg
func (f *sizeFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("attempts") {
		cfg.Attempts = f.attempts
	}
	if changed("experiments") {
		cfg.Experiments = f.experiments
	}
	if changed("suits") {
		cfg.SuitCount = f.suits
	}
	if changed("royal-experiments") {
		cfg.RoyalExperiments = f.royalExperiments
	}
	if changed("max-suits") {
		cfg.SweepMaxSuits = f.maxSuits
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cardlab",
		Short:         "Monte Carlo experiments on shuffled card decks",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMenu,
	}

	root.AddCommand(
		newMenuCmd(),
		newRunCmd(),
		newScheduleCmd(),
		newHistoryCmd(),
		newMigrateCmd(),
	)
	return root
}

// withApp loads the configuration, lets adjust override it and runs fn
// against a fresh application
func withApp(cmd *cobra.Command, adjust func(*config.Config), fn func(context.Context, *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if adjust != nil {
		adjust(cfg)
	}

	a, err := app.New(cmd.Context(), cfg, app.WithOutput(cmd.OutOrStdout()))
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Shutdown(); err != nil {
			a.Logger().Warn("Error closing repository: %v", err)
		}
	}()

	return fn(cmd.Context(), a)
}

func parseKind(arg string) (entities.ExperimentKind, error) {
	kind := entities.ExperimentKind(arg)
	if !kind.Valid() {
		return "", types.Errorf(types.ErrInvalidArgument, "unknown experiment %q, expected one of %v", arg, entities.Kinds)
	}
	return kind, nil
}

func newMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Choose experiments from an interactive menu",
		RunE:  runMenu,
	}
}

func runMenu(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, nil, func(ctx context.Context, a *app.App) error {
		_ = pterm.DefaultBigText.WithLetters(
			putils.LettersFromStringWithStyle("Card", pterm.FgRed.ToStyle()),
			putils.LettersFromStringWithStyle("Lab", pterm.FgDarkGray.ToStyle()),
		).Render()

		menu := cli.NewMenu(cli.PtermPrompter{}, a.Registry, a.Settings(), a.Publisher(), a.Logger())
		return menu.Run(ctx)
	})
}

func newRunCmd() *cobra.Command {
	flags := &sizeFlags{}
	cmd := &cobra.Command{
		Use:       "run <fairness|hands|royal|sweep>",
		Short:     "Run one experiment and publish its report",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"fairness", "hands", "royal", "sweep"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			adjust := func(cfg *config.Config) { flags.apply(cmd, cfg) }
			return withApp(cmd, adjust, func(ctx context.Context, a *app.App) error {
				return a.Run(ctx, kind, a.Settings())
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newScheduleCmd() *cobra.Command {
	flags := &sizeFlags{}
	var interval time.Duration
	var experiment string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run an experiment at a fixed interval until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var kindName string
			var every time.Duration
			adjust := func(cfg *config.Config) {
				flags.apply(cmd, cfg)
				if cmd.Flags().Changed("interval") {
					cfg.ScheduleInterval = interval
				}
				if cmd.Flags().Changed("experiment") {
					cfg.ScheduleExperiment = experiment
				}
				kindName, every = cfg.ScheduleExperiment, cfg.ScheduleInterval
			}
			return withApp(cmd, adjust, func(ctx context.Context, a *app.App) error {
				kind, err := parseKind(kindName)
				if err != nil {
					return err
				}
				a.Logger().Info("Running %s every %s, press Ctrl+C to stop", kind, every)
				return a.Schedule(ctx, kind, a.Settings())
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&interval, "interval", time.Hour, "time between runs")
	cmd.Flags().StringVar(&experiment, "experiment", "fairness", "experiment to run")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var kind string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored experiment runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter entities.ExperimentKind
			if kind != "" {
				k, err := parseKind(kind)
				if err != nil {
					return err
				}
				filter = k
			}

			return withApp(cmd, nil, func(ctx context.Context, a *app.App) error {
				runs, err := a.History(ctx, filter, limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs stored yet")
					return nil
				}

				table, err := pterm.DefaultTable.WithHasHeader().WithData(historyRows(runs)).Srender()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only show runs of this experiment")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to show, 0 for all")
	return cmd
}

// historyRows renders runs as table rows under a header row
func historyRows(runs []*entities.ExperimentRun) [][]string {
	rows := [][]string{{"Created", "Kind", "Mean", "Seed", "Duration", "Status"}}
	for _, run := range runs {
		status := "ok"
		if run.Failed {
			status = "failed: " + run.Error
		}
		rows = append(rows, []string{
			run.CreatedAt.Local().Format(time.DateTime),
			string(run.Kind),
			strconv.FormatFloat(run.Mean, 'f', 4, 64),
			strconv.FormatInt(run.Seed, 10),
			run.Duration.Round(time.Millisecond).String(),
			status,
		})
	}
	return rows
}

func newMigrateCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the SQLite results database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dbPath == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				dbPath = cfg.SQLitePath()
			}
			applied, err := applyMigrations(dbPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migrations to %s\n", applied, dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "path to the SQLite database (default DATA_DIR/cardlab.db)")
	return cmd
}

func applyMigrations(dbPath string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return 0, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return 0, fmt.Errorf("error opening database: %w", err)
	}
	defer db.Close()

	return migrations.NewMigrator(db).Quiet().MigrateUp()
}
