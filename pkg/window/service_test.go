package window

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return parsed
}

func TestAggregateTrailingHoursInclusiveBounds(t *testing.T) {
	now := mustTime(t, "2024-03-10T12:00:00Z")
	readings := []Reading{
		{Timestamp: now.Add(-25 * time.Hour), ValueKwh: 5},  // outside
		{Timestamp: now.Add(-24 * time.Hour), ValueKwh: 2},  // exactly on start, in
		{Timestamp: now.Add(-1 * time.Hour), ValueKwh: 3},   // in
		{Timestamp: now, ValueKwh: 1.5},                     // exactly now, in
		{Timestamp: now.Add(time.Minute), ValueKwh: 100},    // future, out
	}

	result := Aggregate(readings, now, TrailingHours(24))
	if result.IsEmpty {
		t.Fatal("expected non-empty result")
	}
	if result.TotalKwh != 6.5 {
		t.Errorf("expected total 6.5, got %v", result.TotalKwh)
	}
	if result.ReadingCount != 3 {
		t.Errorf("expected 3 readings, got %d", result.ReadingCount)
	}
	if result.WindowLabel != "last 24 hours" {
		t.Errorf("unexpected label %q", result.WindowLabel)
	}
}

func TestAggregateTrailingHoursSpecExample(t *testing.T) {
	now := mustTime(t, "2024-03-10T12:00:00Z")
	readings := []Reading{
		{Timestamp: now.Add(-25 * time.Hour), ValueKwh: 5},
		{Timestamp: now.Add(-1 * time.Hour), ValueKwh: 3},
	}

	result := Aggregate(readings, now, TrailingHours(24))
	if result.TotalKwh != 3.0 {
		t.Errorf("expected total 3.0, got %v", result.TotalKwh)
	}
	if result.ReadingCount != 1 {
		t.Errorf("expected 1 reading, got %d", result.ReadingCount)
	}
}

func TestAggregateEmptyReadings(t *testing.T) {
	now := mustTime(t, "2024-03-10T12:00:00Z")
	modes := []Mode{
		TrailingHours(24),
		CalendarDayUTC(1),
		CalendarDayShifted(1, -7),
	}

	for _, mode := range modes {
		result := Aggregate(nil, now, mode)
		if !result.IsEmpty {
			t.Errorf("mode %d: expected empty result", mode.Kind)
		}
		if result.TotalKwh != 0 || result.ReadingCount != 0 {
			t.Errorf("mode %d: expected zero totals, got %+v", mode.Kind, result)
		}
	}
}

func TestAggregateNegativeValuesClampToZero(t *testing.T) {
	now := mustTime(t, "2024-03-10T12:00:00Z")
	readings := []Reading{
		{Timestamp: now.Add(-2 * time.Hour), ValueKwh: -4},
		{Timestamp: now.Add(-1 * time.Hour), ValueKwh: 2},
	}

	result := Aggregate(readings, now, TrailingHours(24))
	if result.TotalKwh != 2 {
		t.Errorf("expected total 2, got %v", result.TotalKwh)
	}
	// The bad sample still counts as a reading.
	if result.ReadingCount != 2 {
		t.Errorf("expected 2 readings, got %d", result.ReadingCount)
	}
}

func TestAggregateDuplicateTimestampsAllCounted(t *testing.T) {
	now := mustTime(t, "2024-03-10T12:00:00Z")
	ts := now.Add(-3 * time.Hour)
	readings := []Reading{
		{Timestamp: ts, ValueKwh: 1},
		{Timestamp: ts, ValueKwh: 1},
		{Timestamp: ts, ValueKwh: 1},
	}

	result := Aggregate(readings, now, TrailingHours(24))
	if result.TotalKwh != 3 || result.ReadingCount != 3 {
		t.Errorf("expected 3 readings totaling 3, got %+v", result)
	}
}

func TestAggregateCalendarDayUTCBounds(t *testing.T) {
	now := mustTime(t, "2024-03-10T12:00:00Z")
	readings := []Reading{
		{Timestamp: mustTime(t, "2024-03-08T23:59:59Z"), ValueKwh: 100}, // day before, out
		{Timestamp: mustTime(t, "2024-03-09T00:00:00Z"), ValueKwh: 1},   // start inclusive
		{Timestamp: mustTime(t, "2024-03-09T15:30:00Z"), ValueKwh: 2},
		{Timestamp: mustTime(t, "2024-03-10T00:00:00Z"), ValueKwh: 100}, // end exclusive
	}

	result := Aggregate(readings, now, CalendarDayUTC(1))
	if result.TotalKwh != 3 {
		t.Errorf("expected total 3, got %v", result.TotalKwh)
	}
	if result.ReadingCount != 2 {
		t.Errorf("expected 2 readings, got %d", result.ReadingCount)
	}
	if result.Day != "2024-03-09" {
		t.Errorf("expected day 2024-03-09, got %q", result.Day)
	}
}

func TestCalendarDayShiftedLocalDateMapping(t *testing.T) {
	// 02:00 UTC shifted by -7h lands at 19:00 the prior local day.
	now := mustTime(t, "2024-01-03T12:00:00Z")
	readings := []Reading{
		{Timestamp: mustTime(t, "2024-01-02T02:00:00Z"), ValueKwh: 4.5},
	}

	result := Aggregate(readings, now, CalendarDayShifted(1, -7))
	if result.IsEmpty {
		t.Fatal("expected non-empty result")
	}
	if result.Day != "2024-01-01" {
		t.Errorf("expected local date 2024-01-01, got %q", result.Day)
	}
	if result.TotalKwh != 4.5 {
		t.Errorf("expected total 4.5, got %v", result.TotalKwh)
	}
}

func TestCalendarDayShiftedFallbackToNearestPriorDay(t *testing.T) {
	// Requested day (yesterday = 2024-01-04) has no readings and the day
	// before is empty too; the fallback must land on 2024-01-02 and skip
	// nothing in between.
	now := mustTime(t, "2024-01-05T12:00:00Z")
	readings := []Reading{
		{Timestamp: mustTime(t, "2024-01-02T10:00:00Z"), ValueKwh: 7.5},
		{Timestamp: mustTime(t, "2024-01-02T14:00:00Z"), ValueKwh: 5},
		{Timestamp: mustTime(t, "2024-01-01T12:00:00Z"), ValueKwh: 9},
	}

	result := Aggregate(readings, now, CalendarDayShifted(1, 0))
	if result.IsEmpty {
		t.Fatal("expected fallback result")
	}
	if result.Day != "2024-01-02" {
		t.Errorf("expected fallback day 2024-01-02, got %q", result.Day)
	}
	if result.TotalKwh != 12.5 {
		t.Errorf("expected total 12.5, got %v", result.TotalKwh)
	}
	if result.WindowLabel != "2024-01-02" {
		t.Errorf("label should name the fallback day, got %q", result.WindowLabel)
	}
}

func TestCalendarDayShiftedFallbackSkipsZeroTotalDays(t *testing.T) {
	now := mustTime(t, "2024-01-05T12:00:00Z")
	readings := []Reading{
		// Nearest prior day exists but totals zero; keep scanning back.
		{Timestamp: mustTime(t, "2024-01-03T10:00:00Z"), ValueKwh: 0},
		{Timestamp: mustTime(t, "2024-01-02T10:00:00Z"), ValueKwh: 6},
	}

	result := Aggregate(readings, now, CalendarDayShifted(1, 0))
	if result.Day != "2024-01-02" {
		t.Errorf("expected day 2024-01-02, got %q", result.Day)
	}
	if result.TotalKwh != 6 {
		t.Errorf("expected total 6, got %v", result.TotalKwh)
	}
}

func TestCalendarDayShiftedZeroTotalTargetFallsBack(t *testing.T) {
	// The requested day has a reading but it totals zero; that is a lag
	// day, not a real production day, so the prior day must be reported.
	now := mustTime(t, "2024-01-05T12:00:00Z")
	readings := []Reading{
		{Timestamp: mustTime(t, "2024-01-04T10:00:00Z"), ValueKwh: 0},
		{Timestamp: mustTime(t, "2024-01-03T10:00:00Z"), ValueKwh: 6},
	}

	result := Aggregate(readings, now, CalendarDayShifted(1, 0))
	if result.IsEmpty {
		t.Fatal("expected fallback result")
	}
	if result.Day != "2024-01-03" {
		t.Errorf("expected fallback day 2024-01-03, got %q", result.Day)
	}
	if result.TotalKwh != 6 {
		t.Errorf("expected total 6, got %v", result.TotalKwh)
	}
}

func TestCalendarDayShiftedAllDaysZeroTotal(t *testing.T) {
	// Zero-total target and no prior day with production comes back
	// empty rather than reporting a misleading zero.
	now := mustTime(t, "2024-01-05T12:00:00Z")
	readings := []Reading{
		{Timestamp: mustTime(t, "2024-01-04T10:00:00Z"), ValueKwh: 0},
		{Timestamp: mustTime(t, "2024-01-03T10:00:00Z"), ValueKwh: -2},
	}

	result := Aggregate(readings, now, CalendarDayShifted(1, 0))
	if !result.IsEmpty {
		t.Fatalf("expected empty result, got %+v", result)
	}
	if result.WindowLabel != "2024-01-04" {
		t.Errorf("empty result should label the requested day, got %q", result.WindowLabel)
	}
}

func TestCalendarDayShiftedNeverScansForward(t *testing.T) {
	// Only data after the requested day; must come back empty.
	now := mustTime(t, "2024-01-05T12:00:00Z")
	readings := []Reading{
		{Timestamp: mustTime(t, "2024-01-05T10:00:00Z"), ValueKwh: 8},
	}

	result := Aggregate(readings, now, CalendarDayShifted(1, 0))
	if !result.IsEmpty {
		t.Fatalf("expected empty result, got %+v", result)
	}
	if result.WindowLabel != "2024-01-04" {
		t.Errorf("empty result should label the requested day, got %q", result.WindowLabel)
	}
}

func TestAggregateFirstStopsAtFirstNonEmpty(t *testing.T) {
	now := mustTime(t, "2024-01-05T12:00:00Z")
	readings := []Reading{
		{Timestamp: now.Add(-2 * time.Hour), ValueKwh: 3},
	}

	// Yesterday is empty; the trailing candidate should win.
	result := AggregateFirst(readings, now,
		CalendarDayUTC(1),
		TrailingHours(24),
	)
	if result.IsEmpty {
		t.Fatal("expected trailing candidate to produce a result")
	}
	if result.Kind != KindTrailingHours {
		t.Errorf("expected trailing result, got kind %d", result.Kind)
	}
	if result.TotalKwh != 3 {
		t.Errorf("expected total 3, got %v", result.TotalKwh)
	}
}

func TestAggregateFirstAllEmpty(t *testing.T) {
	now := mustTime(t, "2024-01-05T12:00:00Z")

	result := AggregateFirst(nil, now, CalendarDayUTC(1), TrailingHours(24))
	if !result.IsEmpty {
		t.Fatalf("expected empty result, got %+v", result)
	}
	// Last candidate's window is reported.
	if result.Kind != KindTrailingHours {
		t.Errorf("expected last candidate's kind, got %d", result.Kind)
	}
}

func TestAggregateFirstNoModes(t *testing.T) {
	now := mustTime(t, "2024-01-05T12:00:00Z")
	result := AggregateFirst(nil, now)
	if !result.IsEmpty {
		t.Fatalf("expected empty result, got %+v", result)
	}
}
