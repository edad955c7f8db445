// Reads production metrics from the flat JSON files written by an
// external extraction process. Alternate backend to solardb.
package jsonmetrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/solarwatch/solar_notifier/pkg/window"
)

// Source reads every *.json metric file in Dir.
type Source struct {
	Dir string
}

func NewSource(dir string) *Source {
	return &Source{Dir: dir}
}

func (s *Source) ReadAll() ([]window.Reading, error) {
	if _, err := os.Stat(s.Dir); err != nil {
		return nil, fmt.Errorf("metrics dir unavailable: %w", err)
	}

	paths, err := filepath.Glob(filepath.Join(s.Dir, "*.json"))
	if err != nil {
		return nil, err
	}

	var readings []window.Reading
	for _, path := range paths {
		fileReadings, err := readMetricFile(path)
		if err != nil {
			return nil, fmt.Errorf("metric file %s: %w", filepath.Base(path), err)
		}
		readings = append(readings, fileReadings...)
	}
	return readings, nil
}

func readMetricFile(path string) ([]window.Reading, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rows []metricRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}

	readings := make([]window.Reading, 0, len(rows))
	for _, row := range rows {
		ts, err := time.Parse(time.RFC3339, row.Timestamp)
		if err != nil {
			// A reading we can't place in time can't be windowed
			continue
		}
		var value float64
		if row.ValueKwh != nil {
			value = *row.ValueKwh
		}
		readings = append(readings, window.Reading{
			Timestamp: ts.UTC(),
			ValueKwh:  value,
		})
	}
	return readings, nil
}
