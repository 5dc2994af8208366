// Package calendar builds month grids of scheduled outfits.
package calendar

import (
	"fmt"
	"slices"
	"time"

	"github.com/rpupo63/virtual-closet-backend/models"
)

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t, in t's location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a YYYY-MM value.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// First returns the first day of the month at UTC midnight.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Last returns the last day of the month at UTC midnight.
func (m Month) Last() time.Time {
	return m.First().AddDate(0, 1, -1)
}

func (m Month) Prev() Month {
	return MonthOf(m.First().AddDate(0, -1, 0))
}

func (m Month) Next() Month {
	return MonthOf(m.First().AddDate(0, 1, 0))
}

// Label renders the month for headings, e.g. "June 2024".
func (m Month) Label() string {
	return m.First().Format("January 2006")
}

// Navigation moves the displayed month.
type Navigation string

const (
	NavPrev  Navigation = "prev"
	NavNext  Navigation = "next"
	NavToday Navigation = "today"
)

// Navigate returns the month shown after applying nav to current.
// An unknown or empty nav leaves current unchanged.
func Navigate(current Month, nav Navigation, now time.Time) Month {
	switch nav {
	case NavPrev:
		return current.Prev()
	case NavNext:
		return current.Next()
	case NavToday:
		return MonthOf(now)
	}
	return current
}

// Day is one cell of a month grid.
type Day struct {
	Date           time.Time               `json:"-"`
	DateString     string                  `json:"date"`
	IsCurrentMonth bool                    `json:"isCurrentMonth"`
	IsToday        bool                    `json:"isToday"`
	Outfits        []models.CalendarOutfit `json:"outfits"`
}

// GridRange returns the first Sunday on or before the 1st and the first Saturday
// on or after the last day of m.
func GridRange(m Month) (start, end time.Time) {
	first := m.First()
	last := m.Last()
	start = first.AddDate(0, 0, -int(first.Weekday()))
	end = last.AddDate(0, 0, int(time.Saturday-last.Weekday()))
	return start, end
}

// BuildGrid lays out whole weeks covering m. Cells are keyed into outfitsByDate by
// YYYY-MM-DD and a cell is today when its date matches now's calendar day.
func BuildGrid(m Month, outfitsByDate map[string][]models.CalendarOutfit, now time.Time) []Day {
	start, end := GridRange(m)
	today := DateKey(now)

	days := make([]Day, 0, 42)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(models.DateLayout)
		outfits := outfitsByDate[key]
		if outfits == nil {
			outfits = []models.CalendarOutfit{}
		}
		days = append(days, Day{
			Date:           d,
			DateString:     key,
			IsCurrentMonth: d.Month() == m.Month && d.Year() == m.Year,
			IsToday:        key == today,
			Outfits:        outfits,
		})
	}
	return days
}

// GroupByDate buckets outfits by date key, each bucket ordered by position.
func GroupByDate(outfits []models.CalendarOutfit) map[string][]models.CalendarOutfit {
	grouped := make(map[string][]models.CalendarOutfit)
	for _, o := range outfits {
		key := o.DateKey()
		grouped[key] = append(grouped[key], o)
	}
	for _, bucket := range grouped {
		slices.SortStableFunc(bucket, func(a, b models.CalendarOutfit) int {
			return a.Position - b.Position
		})
	}
	return grouped
}

// DateKey formats t's calendar day, in t's own location, as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Format(models.DateLayout)
}

// ParseDate parses a YYYY-MM-DD value into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
