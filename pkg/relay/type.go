package relay

import (
	"time"

	"github.com/solarwatch/solar_notifier/pkg/window"
)

// Clock is injectable so report runs can be pinned to a fixed instant
// in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// ReadingSource is any store the notifier can report from: the sqlite
// collector database, the extraction step's JSON files, anything with
// timestamped kWh readings.
type ReadingSource interface {
	ReadAll() ([]window.Reading, error)
}

// MessageSender delivers the formatted status line.
type MessageSender interface {
	Send(subject, body string) error
}
