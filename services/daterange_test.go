package services

import (
	"testing"
	"time"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestDayCountInclusive(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"three days", d(2024, 1, 10), d(2024, 1, 12), 3},
		{"single day", d(2024, 1, 10), d(2024, 1, 10), 1},
		{"across leap day", d(2024, 2, 28), d(2024, 3, 1), 3},
		{"reversed", d(2024, 1, 12), d(2024, 1, 10), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayCount(tt.start, tt.end); got != tt.want {
				t.Fatalf("DayCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDayCountIgnoresDSTShift(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	start := time.Date(2024, 3, 30, 0, 0, 0, 0, loc)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, loc)
	if got := DayCount(start, end); got != 3 {
		t.Fatalf("DayCount across DST = %d, want 3", got)
	}
}

func TestEachDay(t *testing.T) {
	days := EachDay(d(2024, 1, 30), d(2024, 2, 2))
	if len(days) != 4 {
		t.Fatalf("expected 4 days, got %d", len(days))
	}
	if !days[3].Equal(d(2024, 2, 2)) {
		t.Fatalf("last day = %v", days[3])
	}
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(1, 2024, time.UTC)
	if !first.Equal(d(2024, 2, 1)) || !last.Equal(d(2024, 2, 29)) {
		t.Fatalf("February 2024 = %v..%v", first, last)
	}
	first, last = MonthBounds(11, 2023, time.UTC)
	if !first.Equal(d(2023, 12, 1)) || !last.Equal(d(2023, 12, 31)) {
		t.Fatalf("December 2023 = %v..%v", first, last)
	}
}

func TestOverlapDaysClipsToMonth(t *testing.T) {
	first, last := MonthBounds(0, 2024, time.UTC)
	// Jan 30 .. Feb 2 contributes two January days.
	if got := OverlapDays(d(2024, 1, 30), d(2024, 2, 2), first, last); got != 2 {
		t.Fatalf("January overlap = %d, want 2", got)
	}
	if got := OverlapDays(d(2024, 3, 1), d(2024, 3, 2), first, last); got != 0 {
		t.Fatalf("disjoint overlap = %d, want 0", got)
	}
}
