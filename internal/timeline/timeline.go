// Package timeline turns a baby's flat step list into the day groups and
// month pills the timeline view renders.
package timeline

import (
	"sort"
	"time"

	"babysteps-backend/internal/dateutil"
	"babysteps-backend/internal/models"
)

// DayGroup is all steps sharing one calendar date, plus the display facts
// the day card needs.
type DayGroup struct {
	Date             string         `json:"date"`
	Steps            []*models.Step `json:"steps"`
	DayNumber        int            `json:"day_number"`
	HasMajor         bool           `json:"has_major"`
	LocationNickname string         `json:"location_nickname,omitempty"`
	MoreCount        int            `json:"more_count"`
}

// MonthPill is one selectable month bucket on the horizontal timeline.
type MonthPill struct {
	Index      int    `json:"index"`
	Label      string `json:"label"`
	DateRange  string `json:"date_range"`
	Selectable bool   `json:"selectable"`
}

// GroupByDay groups the steps falling inside the month bucket at monthIndex
// into per-date groups ordered ascending by date string. Step order within
// a group is preserved as given (creation order). An empty bucket yields an
// empty slice, not an error.
func GroupByDay(steps []*models.Step, birthdate time.Time, monthIndex int) []DayGroup {
	byDate := make(map[string][]*models.Step)
	for _, s := range steps {
		if !dateutil.IsDateInMonth(s.Date, birthdate, monthIndex) {
			continue
		}
		byDate[s.Date] = append(byDate[s.Date], s)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	groups := make([]DayGroup, 0, len(dates))
	for _, d := range dates {
		groups = append(groups, newDayGroup(d, byDate[d], birthdate))
	}
	return groups
}

func newDayGroup(date string, steps []*models.Step, birthdate time.Time) DayGroup {
	g := DayGroup{
		Date:      date,
		Steps:     steps,
		MoreCount: len(steps) - 1,
	}
	if d, err := dateutil.ParseDate(date); err == nil {
		g.DayNumber = dateutil.DayNumber(birthdate, d)
	}
	for _, s := range steps {
		if s.IsMajor {
			g.HasMajor = true
			break
		}
	}
	// first location tag wins, by iteration order
	for _, s := range steps {
		if s.LocationNickname != nil && *s.LocationNickname != "" {
			g.LocationNickname = *s.LocationNickname
			break
		}
	}
	return g
}

// MonthPills returns one pill per month bucket from birth through ref.
// Buckets beyond the current age are marked unselectable.
func MonthPills(birthdate, ref time.Time) []MonthPill {
	total := dateutil.TotalMonths(birthdate, ref)
	current := dateutil.AgeInMonths(birthdate, ref)

	pills := make([]MonthPill, 0, total)
	for i := 0; i < total; i++ {
		pills = append(pills, MonthPill{
			Index:      i,
			Label:      dateutil.MonthPillLabel(i),
			DateRange:  dateutil.MonthPillDateRange(birthdate, i),
			Selectable: i <= current,
		})
	}
	return pills
}
