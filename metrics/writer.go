package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"titan/game"

	"github.com/google/uuid"
)

// PredictionRecord is one creature slot of one predicted legion.
type PredictionRecord struct {
	Player   string
	Marker   string
	Turn     int // Turn the legion's node was created
	Height   int
	Creature string
	Certain  bool
}

type Writer struct {
	baseDir string
}

// NewWriter creates a fresh output directory under dir, named by the
// current time and a random id so concurrent replays never collide.
func NewWriter(dir string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(dir, timestamp+"-"+uuid.NewString())
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WritePredictions(records []PredictionRecord) error {
	header := []string{"player", "marker", "turn", "height", "creature", "certain"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Player,
			record.Marker,
			strconv.Itoa(record.Turn),
			strconv.Itoa(record.Height),
			record.Creature,
			strconv.FormatBool(record.Certain),
		})
	}
	return w.write("predictions.csv", "prediction", header, rows)
}

// WriteReplayMetric writes one row per event type followed by the failure
// counters.
func (w *Writer) WriteReplayMetric(metric ReplayMetric) error {
	header := []string{"session", "start_time", "duration", "name", "count"}
	row := func(name string, count int) []string {
		return []string{
			metric.SessionID,
			metric.StartTime.Format(time.RFC3339),
			metric.Duration.String(),
			name,
			strconv.Itoa(count),
		}
	}
	var rows [][]string
	for i := 0; i < eventTypes; i++ {
		t := game.EventType(i)
		rows = append(rows, row(t.String(), metric.Events[t]))
	}
	rows = append(rows,
		row("failed", metric.Failed),
		row("violations", metric.Violations),
		row("resyncs", metric.Resyncs),
	)
	return w.write("events.csv", "event", header, rows)
}

func (w *Writer) write(name, what string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s records file: %w", what, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s records header: %w", what, err)
	}
	for _, row := range rows {
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write %s record row: %w", what, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s records: %w", what, err)
	}
	return nil
}
