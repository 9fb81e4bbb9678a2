package reporting

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TimestampLayout is appended to every log file name
const TimestampLayout = "2006_01_02_15_04_05"

// LogWriter saves report lines to timestamped files in a directory
type LogWriter struct {
	dir string
	now func() time.Time
}

// NewLogWriter creates a writer for dir. The directory is created on first write.
func NewLogWriter(dir string) *LogWriter {
	return &LogWriter{
		dir: dir,
		now: time.Now,
	}
}

// Dir returns the directory files are written to
func (w *LogWriter) Dir() string {
	return w.dir
}

// Path returns the file name Write would use for name right now
func (w *LogWriter) Path(name string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s-%s.log", name, w.now().Format(TimestampLayout)))
}

// Write saves lines to <dir>/<name>-<timestamp>.log, one per line, and
// returns the file path
func (w *LogWriter) Write(name string, lines []string) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("error creating log directory: %w", err)
	}

	path := w.Path(name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating log file: %w", err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := buf.WriteString(line + "\n"); err != nil {
			return "", fmt.Errorf("error writing log file: %w", err)
		}
	}
	if err := buf.Flush(); err != nil {
		return "", fmt.Errorf("error writing log file: %w", err)
	}
	return path, nil
}

// WriteError saves err to error-<name>-<timestamp>.log
func (w *LogWriter) WriteError(name string, err error) (string, error) {
	return w.Write("error-"+name, []string{err.Error()})
}
