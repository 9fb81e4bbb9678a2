package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fadedpez/cardlab/internal/logging"
	"github.com/pterm/pterm"
)

// Publisher sends a report to every configured output: the log directory,
// the terminal and an optional notifier.
type Publisher struct {
	logs     *LogWriter
	logger   *logging.Logger
	out      io.Writer
	charts   bool
	notifier Notifier
}

// PublisherOption configures a Publisher
type PublisherOption func(*Publisher)

// WithCharts toggles terminal bar charts
func WithCharts(enabled bool) PublisherOption {
	return func(p *Publisher) {
		p.charts = enabled
	}
}

// WithNotifier adds a notifier
func WithNotifier(n Notifier) PublisherOption {
	return func(p *Publisher) {
		p.notifier = n
	}
}

// WithOutput replaces standard output
func WithOutput(w io.Writer) PublisherOption {
	return func(p *Publisher) {
		p.out = w
	}
}

// NewPublisher creates a publisher writing log files through logs
func NewPublisher(logs *LogWriter, logger *logging.Logger, opts ...PublisherOption) *Publisher {
	if logger == nil {
		logger = logging.Discard
	}
	p := &Publisher{
		logs:   logs,
		logger: logger,
		out:    os.Stdout,
		charts: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish writes the report's log file, prints it and notifies. Only a
// failure to write the log file is returned.
func (p *Publisher) Publish(report Report) error {
	path, err := p.logs.Write(report.Name, report.Lines)
	if err != nil {
		return err
	}
	p.logger.Info("Saved %s report to %s", report.Name, path)

	box := pterm.DefaultBox.WithTitle(report.Name).WithHorizontalPadding(2).WithTopPadding(1).WithBottomPadding(1)
	fmt.Fprintln(p.out, box.Sprint(strings.Join(report.Lines, "\n")))

	if p.charts {
		for _, series := range report.Series {
			if len(series.Values) == 0 {
				continue
			}
			chart, err := RenderBarChart(series)
			if err != nil {
				p.logger.Warn("Failed to render %s chart: %v", series.Title, err)
				continue
			}
			fmt.Fprint(p.out, chart)
		}
	}

	if p.notifier != nil {
		if err := p.notifier.Notify(report); err != nil {
			p.logger.Warn("Failed to send %s notification: %v", report.Name, err)
		}
	}
	return nil
}

// PublishError records a failed experiment in an error log and notifies
func (p *Publisher) PublishError(name string, cause error) error {
	path, err := p.logs.WriteError(name, cause)
	if err != nil {
		return err
	}
	p.logger.Info("Saved %s error to %s", name, path)
	fmt.Fprintln(p.out, pterm.Error.Sprint(cause.Error()))

	if p.notifier != nil {
		if err := p.notifier.NotifyError(name, cause); err != nil {
			p.logger.Warn("Failed to send %s error notification: %v", name, err)
		}
	}
	return nil
}
