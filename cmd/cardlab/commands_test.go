package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fadedpez/cardlab/internal/config"
	"github.com/fadedpez/cardlab/internal/types"
	"github.com/fadedpez/cardlab/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv points every file the commands write at a temp dir
func setupEnv(t *testing.T) string {
	dir := t.TempDir()
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("CHARTS", "false")
	t.Setenv("STORAGE_TYPE", "sqlite")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	out := &bytes.Buffer{}
	root := newRootCmd()
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootHasCommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}

	for _, name := range []string{"menu", "run", "schedule", "history", "migrate"} {
		assert.Contains(t, names, name)
	}
}

func TestParseKind(t *testing.T) {
	for _, kind := range entities.Kinds {
		got, err := parseKind(string(kind))
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	_, err := parseKind("blackjack")
	assert.True(t, types.IsCode(err, types.ErrInvalidArgument))
}

func TestSizeFlagsApplyOnlyChanged(t *testing.T) {
	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--attempts", "50", "--seed", "9"}))
	cfg := &config.Config{Attempts: 1000, Experiments: 100, SuitCount: 4, Seed: 0}

	flags := &sizeFlags{attempts: 50, seed: 9}
	flags.apply(cmd, cfg)

	assert.Equal(t, 50, cfg.Attempts)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, 100, cfg.Experiments)
	assert.Equal(t, 4, cfg.SuitCount)
}

func TestHistoryRows(t *testing.T) {
	runs := []*entities.ExperimentRun{
		{Kind: entities.KindFairness, Mean: 7.012345, Seed: 42, Duration: 1500 * time.Millisecond, CreatedAt: time.Now()},
		{Kind: entities.KindRoyalFlush, Failed: true, Error: "gave up", Seed: 1},
	}

	rows := historyRows(runs)

	require.Len(t, rows, 3)
	assert.Equal(t, "Kind", rows[0][1])
	assert.Equal(t, []string{"fairness", "7.0123", "42", "1.5s", "ok"}, rows[1][1:])
	assert.Equal(t, "failed: gave up", rows[2][5])
}

func TestRunCommand(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "run", "fairness", "--attempts", "10", "--experiments", "3", "--seed", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Final Average from 3 trials")

	entries, err := os.ReadDir(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "proving-fairness-"))

	out, err = execute(t, "history", "--kind", "fairness")
	require.NoError(t, err)
	assert.Contains(t, out, "fairness")
	assert.Contains(t, out, "ok")
}

func TestRunCommandRejectsUnknownExperiment(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "run", "poker")

	assert.True(t, types.IsCode(err, types.ErrInvalidArgument))
}

func TestHistoryEmpty(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "history")

	require.NoError(t, err)
	assert.Contains(t, out, "No runs stored yet")
}

func TestMigrateCommand(t *testing.T) {
	dir := setupEnv(t)
	dbPath := filepath.Join(dir, "other", "runs.db")

	out, err := execute(t, "migrate", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 2 migrations")
	assert.FileExists(t, dbPath)

	out, err = execute(t, "migrate", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 0 migrations")
}
