package window

import "time"

// Reading is a single timestamped production measurement.
// Auxiliary fields from the source are dropped at the storage boundary.
type Reading struct {
	Timestamp time.Time
	ValueKwh  float64
}

type WindowKind uint8

const (
	// Window ends at "now" and starts N hours earlier, both ends inclusive.
	KindTrailingHours WindowKind = 0
	// Window is a UTC calendar day, start inclusive, end exclusive.
	KindCalendarDayUTC WindowKind = 1
	// Window is a calendar day after shifting timestamps by a fixed
	// hour offset, with backward fallback to the nearest day with data.
	KindCalendarDayShifted WindowKind = 2
)

// Mode selects how the reporting window is computed relative to "now".
type Mode struct {
	Kind WindowKind

	// Hours is the lookback for KindTrailingHours.
	Hours int

	// OffsetDays counts calendar days back from today (1 = yesterday).
	OffsetDays int

	// TzOffsetHours is a fixed offset applied before grouping readings
	// by local date. Fixed-hour only, no DST awareness.
	TzOffsetHours int
}

func TrailingHours(n int) Mode {
	return Mode{Kind: KindTrailingHours, Hours: n}
}

func CalendarDayUTC(offsetDays int) Mode {
	return Mode{Kind: KindCalendarDayUTC, OffsetDays: offsetDays}
}

func CalendarDayShifted(offsetDays, tzOffsetHours int) Mode {
	return Mode{Kind: KindCalendarDayShifted, OffsetDays: offsetDays, TzOffsetHours: tzOffsetHours}
}

// Result of aggregating readings over a single window.
type Result struct {
	TotalKwh     float64
	ReadingCount int

	// WindowLabel describes the window that was actually reported on.
	// When a calendar day fell back to an earlier date, the label names
	// that earlier date.
	WindowLabel string

	// Day is the reported calendar date (2006-01-02), empty for
	// trailing windows.
	Day string

	Kind    WindowKind
	IsEmpty bool
}
