package solardb

import (
	"database/sql"
	"time"

	"github.com/solarwatch/solar_notifier/pkg/window"
)

// Store wraps a database handle so callers can inject an open database
// instead of reaching for the singleton.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InsertProductionReading(reading *ProductionReading) error {
	_, err := s.db.Exec(
		"INSERT INTO production_readings (timestamp, watt_hours) "+
			"VALUES (?, ?)",
		reading.Timestamp,
		reading.WattHours,
	)
	if err != nil {
		return err
	}
	return nil
}

// ReadAll returns every stored reading ordered by timestamp, converted
// to kWh.
func (s *Store) ReadAll() ([]window.Reading, error) {
	return s.queryReadings(
		"SELECT timestamp, watt_hours FROM production_readings ORDER BY timestamp")
}

// ReadRange returns readings with start <= timestamp <= end, ordered by
// timestamp.
func (s *Store) ReadRange(start, end int64) ([]window.Reading, error) {
	return s.queryReadings(
		"SELECT timestamp, watt_hours FROM production_readings "+
			"WHERE timestamp >= ? AND timestamp <= ? ORDER BY timestamp",
		start, end)
}

func (s *Store) queryReadings(query string, args ...any) ([]window.Reading, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []window.Reading
	for rows.Next() {
		var ts int64
		var wh uint32
		if err := rows.Scan(&ts, &wh); err != nil {
			return nil, err
		}
		readings = append(readings, window.Reading{
			Timestamp: time.Unix(ts, 0).UTC(),
			ValueKwh:  WhToKwh(wh),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return readings, nil
}

// CleanupOldReadings removes samples older than the retention period.
func (s *Store) CleanupOldReadings(retention time.Duration, now time.Time) error {
	cutoff := now.UTC().Add(-retention).Unix()
	_, err := s.db.Exec("DELETE FROM production_readings WHERE timestamp < ?", cutoff)
	return err
}
