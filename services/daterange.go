package services

import "time"

const DateLayout = "2006-01-02"

// civil strips time and location, keeping only the calendar date.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Midnight trả về 0h của ngày chứa t theo múi giờ loc
func Midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ParseDate đọc ngày dạng YYYY-MM-DD thành 0h theo múi giờ loc
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// DayCount is the inclusive number of calendar days from start to end.
// It is zero or negative when end precedes start.
func DayCount(start, end time.Time) int {
	return int(civil(end).Sub(civil(start)).Hours()/24) + 1
}

// EachDay lists every calendar date in [start, end], at midnight in the
// location of start.
func EachDay(start, end time.Time) []time.Time {
	n := DayCount(start, end)
	if n <= 0 {
		return nil
	}
	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	days := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, first.AddDate(0, 0, i))
	}
	return days
}

// MonthBounds returns the first and last day of a month; month is 0-based.
func MonthBounds(month, year int, loc *time.Location) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// OverlapDays counts the days [start, end] shares with [from, to].
func OverlapDays(start, end, from, to time.Time) int {
	lo, hi := civil(start), civil(end)
	if f := civil(from); f.After(lo) {
		lo = f
	}
	if t := civil(to); t.Before(hi) {
		hi = t
	}
	if hi.Before(lo) {
		return 0
	}
	return DayCount(lo, hi)
}
