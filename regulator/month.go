package regulator

import (
	"fmt"
	"time"

	"github.com/etnz/fundscope/date"
)

// Month identifies one monthly bulk archive period.
type Month struct {
	Year int
	M    time.Month
}

// MonthOf returns the period containing the given date.
func MonthOf(d date.Date) Month { return Month{Year: d.Year(), M: d.Month()} }

// dateOf converts a wall-clock time to a day-granularity date.
func dateOf(t time.Time) date.Date { return date.New(t.Date()) }

// String formats the period the way archive names spell it.
func (m Month) String() string { return fmt.Sprintf("%04d-%02d", m.Year, int(m.M)) }

// compact formats the period without separator, as archive URLs spell it.
func (m Month) compact() string { return fmt.Sprintf("%04d%02d", m.Year, int(m.M)) }

// Add returns the period a number of months away.
func (m Month) Add(months int) Month {
	t := time.Date(m.Year, m.M+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), M: t.Month()}
}

// Before reports whether m is strictly before x.
func (m Month) Before(x Month) bool {
	return m.Year < x.Year || (m.Year == x.Year && m.M < x.M)
}

// ParseMonth parses the "2006-01" spelling of a period.
func ParseMonth(str string) (Month, error) {
	t, err := time.Parse("2006-01", str)
	if err != nil {
		return Month{}, fmt.Errorf("invalid period %q, want format 2006-01: %w", str, err)
	}
	return Month{Year: t.Year(), M: t.Month()}, nil
}

// Months returns the list of periods from 'from' to 'to' inclusive.
func Months(from, to Month) []Month {
	var list []Month
	for m := from; !to.Before(m); m = m.Add(1) {
		list = append(list, m)
	}
	return list
}
