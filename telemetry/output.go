package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/arena/config"
)

// OutputManager handles run output as CSV files in one directory.
// events.csv, telemetry.csv, perf.csv and bookmarks.csv are appended during
// the run; agents.csv is written once at the end.
type OutputManager struct {
	dir           string
	eventsFile    *os.File
	telemetryFile *os.File
	perfFile      *os.File
	bookmarkFile  *os.File

	// Track if headers have been written
	eventsHeaderWritten    bool
	telemetryHeaderWritten bool
	perfHeaderWritten      bool
	bookmarkHeaderWritten  bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	var err error
	if om.eventsFile, err = om.create("events.csv"); err != nil {
		return nil, err
	}
	if om.telemetryFile, err = om.create("telemetry.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.perfFile, err = om.create("perf.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.bookmarkFile, err = om.create("bookmarks.csv"); err != nil {
		om.Close()
		return nil, err
	}

	return om, nil
}

func (om *OutputManager) create(name string) (*os.File, error) {
	f, err := os.Create(filepath.Join(om.dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return f, nil
}

// appendRows writes rows to f, emitting the header only on the first call.
func appendRows(rows any, f *os.File, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(rows, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, f)
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteEvents appends event records to events.csv.
func (om *OutputManager) WriteEvents(events []EventRecord) error {
	if om == nil || len(events) == 0 {
		return nil
	}
	if err := appendRows(events, om.eventsFile, &om.eventsHeaderWritten); err != nil {
		return fmt.Errorf("writing events: %w", err)
	}
	return nil
}

// WriteTelemetry appends a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := appendRows([]WindowStats{stats}, om.telemetryFile, &om.telemetryHeaderWritten); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf appends a timing record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int64) error {
	if om == nil {
		return nil
	}
	rows := []PerfStatsCSV{stats.ToCSV(windowEnd)}
	if err := appendRows(rows, om.perfFile, &om.perfHeaderWritten); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteBookmark appends a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	if err := appendRows([]Bookmark{b}, om.bookmarkFile, &om.bookmarkHeaderWritten); err != nil {
		return fmt.Errorf("writing bookmark: %w", err)
	}
	return nil
}

// WriteResults writes the final scoreboard to agents.csv.
func (om *OutputManager) WriteResults(results []AgentResult) error {
	if om == nil {
		return nil
	}
	f, err := om.create("agents.csv")
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gocsv.Marshal(results, f); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.eventsFile, om.telemetryFile, om.perfFile, om.bookmarkFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
