package window

import (
	"fmt"
	"sort"
	"time"
)

const dateFormat = "2006-01-02"

// Aggregate computes the production total and reading count for the
// window selected by mode. It never fails; missing data comes back as an
// empty result.
func Aggregate(readings []Reading, now time.Time, mode Mode) Result {
	switch mode.Kind {
	case KindTrailingHours:
		return aggregateTrailing(readings, now, mode.Hours)
	case KindCalendarDayUTC:
		return aggregateCalendarDayUTC(readings, now, mode.OffsetDays)
	case KindCalendarDayShifted:
		return aggregateCalendarDayShifted(readings, now, mode.OffsetDays, mode.TzOffsetHours)
	default:
		return emptyResult(mode.Kind, "")
	}
}

// AggregateFirst evaluates the candidate modes in order and returns the
// first non-empty result. When every candidate comes up empty, the last
// candidate's empty result is returned so the caller can still report
// which window was attempted.
func AggregateFirst(readings []Reading, now time.Time, modes ...Mode) Result {
	if len(modes) == 0 {
		return emptyResult(KindTrailingHours, "")
	}
	var result Result
	for _, mode := range modes {
		result = Aggregate(readings, now, mode)
		if !result.IsEmpty {
			return result
		}
	}
	return result
}

// roundToDayStart returns the UTC midnight preceding the given time.
func roundToDayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// clampValue maps negative readings to 0 so a bad sample never reduces
// the total.
func clampValue(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func emptyResult(kind WindowKind, label string) Result {
	return Result{Kind: kind, WindowLabel: label, IsEmpty: true}
}

func aggregateTrailing(readings []Reading, now time.Time, hours int) Result {
	start := now.Add(-time.Duration(hours) * time.Hour)
	label := fmt.Sprintf("last %d hours", hours)

	result := Result{Kind: KindTrailingHours, WindowLabel: label}
	for _, r := range readings {
		// Both window ends inclusive
		if r.Timestamp.Before(start) || r.Timestamp.After(now) {
			continue
		}
		result.TotalKwh += clampValue(r.ValueKwh)
		result.ReadingCount++
	}
	result.IsEmpty = result.ReadingCount == 0
	return result
}

func aggregateCalendarDayUTC(readings []Reading, now time.Time, offsetDays int) Result {
	dayStart := roundToDayStart(now).AddDate(0, 0, -offsetDays)
	dayEnd := dayStart.AddDate(0, 0, 1)
	day := dayStart.Format(dateFormat)

	result := Result{Kind: KindCalendarDayUTC, WindowLabel: day, Day: day}
	for _, r := range readings {
		// Start inclusive, end exclusive
		ts := r.Timestamp.UTC()
		if ts.Before(dayStart) || !ts.Before(dayEnd) {
			continue
		}
		result.TotalKwh += clampValue(r.ValueKwh)
		result.ReadingCount++
	}
	result.IsEmpty = result.ReadingCount == 0
	return result
}

type dayBucket struct {
	totalKwh float64
	count    int
}

func aggregateCalendarDayShifted(readings []Reading, now time.Time, offsetDays, tzOffsetHours int) Result {
	shift := time.Duration(tzOffsetHours) * time.Hour

	// Group readings by their shifted local calendar date.
	buckets := make(map[string]*dayBucket)
	for _, r := range readings {
		localDate := r.Timestamp.UTC().Add(shift).Format(dateFormat)
		bucket := buckets[localDate]
		if bucket == nil {
			bucket = &dayBucket{}
			buckets[localDate] = bucket
		}
		bucket.totalKwh += clampValue(r.ValueKwh)
		bucket.count++
	}

	// A target day whose readings sum to zero is treated like a missing
	// day: a real production day is never all zeros, lagging ingestion
	// is.
	target := roundToDayStart(now.UTC().Add(shift)).AddDate(0, 0, -offsetDays).Format(dateFormat)
	if bucket, ok := buckets[target]; ok && bucket.totalKwh > 0 {
		return Result{
			Kind:         KindCalendarDayShifted,
			TotalKwh:     bucket.totalKwh,
			ReadingCount: bucket.count,
			WindowLabel:  target,
			Day:          target,
		}
	}

	// Ingestion may lag behind the requested day. Rather than reporting
	// a misleading zero, fall back to the nearest earlier date that has
	// a nonzero total. Never scan forward.
	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		if date < target {
			dates = append(dates, date)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	for _, date := range dates {
		bucket := buckets[date]
		if bucket.count > 0 && bucket.totalKwh > 0 {
			return Result{
				Kind:         KindCalendarDayShifted,
				TotalKwh:     bucket.totalKwh,
				ReadingCount: bucket.count,
				WindowLabel:  date,
				Day:          date,
			}
		}
	}

	return emptyResult(KindCalendarDayShifted, target)
}
