// Package datestamp turns wall-clock seconds into the YYYY_MM_DD stamps used
// in note file names and headers. The calendar math is a plain proleptic
// Gregorian walk from the Unix epoch.
package datestamp

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	secondsPerDay = 86400
	epochYear     = 1970
)

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Date is a calendar date. Month and Day are 1-based.
type Date struct {
	Year  int
	Month int
	Day   int
}

// String formats the date as YYYY_MM_DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d_%02d_%02d", d.Year, d.Month, d.Day)
}

// IsLeap reports whether year has 366 days.
func IsLeap(year int) bool {
	if year%100 == 0 {
		return year%400 == 0
	}
	return year%4 == 0
}

// DaysIn returns the length of month (1-12) in year, or 0 for an invalid month.
func DaysIn(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && IsLeap(year) {
		return 29
	}
	return monthDays[month-1]
}

func daysInYear(year int) int64 {
	if IsLeap(year) {
		return 366
	}
	return 365
}

// FromUnix converts seconds since 1970-01-01T00:00:00Z into a UTC date.
func FromUnix(secs int64) Date {
	days := secs / secondsPerDay
	if secs%secondsPerDay < 0 {
		days--
	}

	year := epochYear
	for days < 0 {
		year--
		days += daysInYear(year)
	}
	for days >= daysInYear(year) {
		days -= daysInYear(year)
		year++
	}

	// days is now in [0, 365].
	month := 1
	for month < 12 && days >= int64(DaysIn(year, month)) {
		days -= int64(DaysIn(year, month))
		month++
	}

	return Date{Year: year, Month: month, Day: int(days) + 1}
}

// Today returns the stamp for the instant reported by now.
func Today(now func() time.Time) string {
	return FromUnix(now().Unix()).String()
}

// Parse reads a YYYY_MM_DD stamp back into a Date.
func Parse(s string) (Date, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return Date{}, fmt.Errorf("datestamp: malformed stamp %q", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, fmt.Errorf("datestamp: malformed stamp %q: %w", s, err)
		}
		nums[i] = n
	}
	d := Date{Year: nums[0], Month: nums[1], Day: nums[2]}
	if d.Day < 1 || d.Day > DaysIn(d.Year, d.Month) {
		return Date{}, fmt.Errorf("datestamp: no such date %q", s)
	}
	return d, nil
}
