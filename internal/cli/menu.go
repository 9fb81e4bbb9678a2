// Package cli is the interactive menu over the registered experiments.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fadedpez/cardlab/internal/experiments"
	"github.com/fadedpez/cardlab/internal/logging"
	"github.com/fadedpez/cardlab/pkg/entities"
	"github.com/pterm/pterm"
)

// Menu entries
const (
	OptionFairness = "Proving Fairness"
	OptionHands    = "Chances of Hands"
	OptionSweep    = "Change in Chance"
	OptionSettings = "Settings"
	OptionQuit     = "Quit"

	OptionRoyalFlush   = "Royal Flush"
	OptionPairAndFlush = "Pair and Flush"
	OptionBack         = "Back"
)

var mainOptions = []string{OptionFairness, OptionHands, OptionSweep, OptionSettings, OptionQuit}
var handOptions = []string{OptionRoyalFlush, OptionPairAndFlush, OptionBack}

var optionKinds = map[string]entities.ExperimentKind{
	OptionFairness:     entities.KindFairness,
	OptionSweep:        entities.KindSweep,
	OptionRoyalFlush:   entities.KindRoyalFlush,
	OptionPairAndFlush: entities.KindHands,
}

var waitMessages = map[entities.ExperimentKind]string{
	entities.KindFairness:   "You chose Proving Fairness Experiment. Please wait for the calculation to be processed",
	entities.KindHands:      "You chose Pair and Flush Experiment. Please wait for the calculation to be carried out",
	entities.KindRoyalFlush: "You chose Royal Flush Experiment. The process will take a very long time to finish",
	entities.KindSweep:      "You chose Change in Chance Experiment. Please wait for the calculation to be carried out",
}

// RegistryBuilder builds the experiments for the current settings
type RegistryBuilder func(settings experiments.Settings) *experiments.Registry

// Menu drives experiments from an interactive prompt
type Menu struct {
	prompter  Prompter
	build     RegistryBuilder
	registry  *experiments.Registry
	settings  experiments.Settings
	publisher experiments.Publisher
	logger    *logging.Logger
	out       io.Writer
	spinner   bool
}

// MenuOption configures a Menu
type MenuOption func(*Menu)

// WithOutput replaces standard output
func WithOutput(w io.Writer) MenuOption {
	return func(m *Menu) {
		m.out = w
	}
}

// WithSpinner toggles the progress spinner shown while an experiment runs
func WithSpinner(enabled bool) MenuOption {
	return func(m *Menu) {
		m.spinner = enabled
	}
}

// NewMenu creates a menu. build is called again whenever settings change.
func NewMenu(prompter Prompter, build RegistryBuilder, settings experiments.Settings, publisher experiments.Publisher, logger *logging.Logger, opts ...MenuOption) *Menu {
	if logger == nil {
		logger = logging.Discard
	}
	m := &Menu{
		prompter:  prompter,
		build:     build,
		registry:  build(settings),
		settings:  settings,
		publisher: publisher,
		logger:    logger,
		out:       os.Stdout,
		spinner:   true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Settings returns the current experiment settings
func (m *Menu) Settings() experiments.Settings {
	return m.settings
}

// Run shows the main menu until the user quits or ctx is done
func (m *Menu) Run(ctx context.Context) error {
	fmt.Fprintln(m.out, "Welcome to the card experiment lab")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		choice, err := m.prompter.Select("Choose experiment", mainOptions)
		if err != nil {
			return err
		}

		switch choice {
		case OptionFairness, OptionSweep:
			m.runExperiment(ctx, optionKinds[choice])
		case OptionHands:
			sub, err := m.prompter.Select("Choose hand experiment", handOptions)
			if err != nil {
				return err
			}
			if kind, ok := optionKinds[sub]; ok {
				m.runExperiment(ctx, kind)
			}
		case OptionSettings:
			if err := m.editSettings(); err != nil {
				return err
			}
		case OptionQuit:
			return nil
		default:
			fmt.Fprintln(m.out, "unrecognized choice")
		}
	}
}

func (m *Menu) runExperiment(ctx context.Context, kind entities.ExperimentKind) {
	message := waitMessages[kind]

	var spinner *pterm.SpinnerPrinter
	if m.spinner {
		spinner, _ = pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(message)
	} else {
		fmt.Fprintln(m.out, message)
	}

	err := m.registry.Run(ctx, kind, m.publisher)

	if spinner != nil {
		_ = spinner.Stop()
	}
	if err != nil {
		// already published; keep the menu alive
		m.logger.Warn("%s experiment did not complete: %v", kind, err)
		fmt.Fprintf(m.out, "%s experiment failed: %v\n", kind, err)
	}
}

func (m *Menu) editSettings() error {
	settings := m.settings

	fields := []struct {
		label string
		value *int
	}{
		{"Attempts per experiment", &settings.Params.Attempts},
		{"Experiments", &settings.Params.Experiments},
		{"Suits", &settings.Params.SuitCount},
		{"Royal flush searches", &settings.RoyalExperiments},
		{"Maximum suits for Change in Chance", &settings.MaxSuits},
	}

	for _, f := range fields {
		n, err := ReadNumber(m.prompter, m.out, fmt.Sprintf("%s [%d]", f.label, *f.value), *f.value, true)
		if err != nil {
			return err
		}
		*f.value = n
	}

	if err := settings.Params.Validate(); err != nil {
		fmt.Fprintf(m.out, "Settings not applied: %v\n", err)
		return nil
	}

	m.settings = settings
	m.registry = m.build(settings)
	m.logger.Info("Settings updated: %+v", settings)
	return nil
}
