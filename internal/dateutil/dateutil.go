// Package dateutil provides pure calendar math for ages, day numbers,
// month buckets and the activity heatmap. All comparisons are by whole
// calendar day; time-of-day and zone are stripped before any arithmetic.
package dateutil

import (
	"fmt"
	"time"
)

// DateLayout is the canonical wire format for calendar dates.
const DateLayout = "2006-01-02"

// HeatmapWeekCount is the fixed number of week buckets in the activity heatmap.
const HeatmapWeekCount = 36

// ParseDate parses a "YYYY-MM-DD" string into a UTC-midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Midnight truncates t to its calendar day at UTC midnight.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TodayString returns today's date as "YYYY-MM-DD".
func TodayString() string {
	return FormatDate(time.Now())
}

func daysBetween(from, to time.Time) int {
	return int(Midnight(to).Sub(Midnight(from)).Hours() / 24)
}

// AgeInWeeks returns the number of complete weeks between birthdate and ref.
func AgeInWeeks(birthdate, ref time.Time) int {
	return daysBetween(birthdate, ref) / 7
}

// AgeInMonths returns the number of complete calendar months between
// birthdate and ref.
func AgeInMonths(birthdate, ref time.Time) int {
	b, r := Midnight(birthdate), Midnight(ref)
	months := (r.Year()-b.Year())*12 + int(r.Month()) - int(b.Month())
	if r.Day() < b.Day() {
		months--
	}
	return months
}

// AgeLabel renders a human-readable age: "3 weeks old", "5 months old",
// "2 years old", "1y 2m old".
func AgeLabel(birthdate, ref time.Time) string {
	weeks := AgeInWeeks(birthdate, ref)
	months := AgeInMonths(birthdate, ref)

	if weeks < 4 {
		return fmt.Sprintf("%d week%s old", weeks, plural(weeks))
	}
	if months < 24 {
		return fmt.Sprintf("%d month%s old", months, plural(months))
	}
	years := months / 12
	rem := months % 12
	if rem == 0 {
		return fmt.Sprintf("%d year%s old", years, plural(years))
	}
	return fmt.Sprintf("%dy %dm old", years, rem)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// DayNumber returns the 1-indexed day count since birth; the birthdate
// itself is Day 1.
func DayNumber(birthdate, date time.Time) int {
	return daysBetween(birthdate, date) + 1
}

// MonthIndex returns the month bucket (0 = birth month) a date falls in
// relative to birthdate.
func MonthIndex(birthdate, date time.Time) int {
	return AgeInMonths(birthdate, date)
}

// MonthRange returns the first and last calendar day of the month bucket
// at monthIndex. Bucket 0 is the calendar month containing the birthdate.
func MonthRange(birthdate time.Time, monthIndex int) (start, end time.Time) {
	b := Midnight(birthdate)
	start = time.Date(b.Year(), b.Month()+time.Month(monthIndex), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)
	return start, end
}

// TotalMonths returns the number of month buckets from birth through ref,
// including the current partial month.
func TotalMonths(birthdate, ref time.Time) int {
	return AgeInMonths(birthdate, ref) + 1
}

// IsDateInMonth reports whether a "YYYY-MM-DD" string falls inside the
// month bucket at monthIndex. Malformed dates are never in any bucket.
func IsDateInMonth(dateStr string, birthdate time.Time, monthIndex int) bool {
	d, err := ParseDate(dateStr)
	if err != nil {
		return false
	}
	start, end := MonthRange(birthdate, monthIndex)
	return !d.Before(start) && !d.After(end)
}

// MonthPillLabel returns "Birth" for bucket 0 and "Month N" otherwise.
func MonthPillLabel(monthIndex int) string {
	if monthIndex == 0 {
		return "Birth"
	}
	return fmt.Sprintf("Month %d", monthIndex)
}

// MonthPillDateRange renders a bucket's span as "Feb 1 – Feb 29".
func MonthPillDateRange(birthdate time.Time, monthIndex int) string {
	start, end := MonthRange(birthdate, monthIndex)
	return fmt.Sprintf("%s – %s", start.Format("Jan 2"), end.Format("Jan 2"))
}

// HeatmapWeek is one 7-day bucket of the activity heatmap.
type HeatmapWeek struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	HasActivity bool      `json:"has_activity"`
}

// HeatmapWeeks produces exactly HeatmapWeekCount consecutive week buckets
// ending at ref; a bucket is active when any of the given "YYYY-MM-DD"
// dates falls within its inclusive 7-day span.
func HeatmapWeeks(dates []string, ref time.Time) []HeatmapWeek {
	parsed := make([]time.Time, 0, len(dates))
	for _, s := range dates {
		if d, err := ParseDate(s); err == nil {
			parsed = append(parsed, d)
		}
	}

	r := Midnight(ref)
	weeks := make([]HeatmapWeek, HeatmapWeekCount)
	for i := range weeks {
		start := r.AddDate(0, 0, -7*(HeatmapWeekCount-1-i))
		end := start.AddDate(0, 0, 6)
		active := false
		for _, d := range parsed {
			if !d.Before(start) && !d.After(end) {
				active = true
				break
			}
		}
		weeks[i] = HeatmapWeek{Start: start, End: end, HasActivity: active}
	}
	return weeks
}

// FormatMemoryDate renders "YYYY-MM-DD" as "March 15, 2024". Malformed
// input is returned unchanged.
func FormatMemoryDate(dateStr string) string {
	d, err := ParseDate(dateStr)
	if err != nil {
		return dateStr
	}
	return d.Format("January 2, 2006")
}

// FormatShortDate renders "YYYY-MM-DD" as "Mar 15". Malformed input is
// returned unchanged.
func FormatShortDate(dateStr string) string {
	d, err := ParseDate(dateStr)
	if err != nil {
		return dateStr
	}
	return d.Format("Jan 2")
}
