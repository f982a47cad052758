package fundscope

import (
	"sort"

	"github.com/etnz/fundscope/date"
	"github.com/shopspring/decimal"
)

// Position is one row of the consolidated table: a fund's holding of one
// asset at one date. (Fund, On, AssetID) is unique in a consolidated table.
type Position struct {
	Fund           FundID
	On             date.Date
	AssetID        string
	Value          decimal.Decimal
	TotalNetAssets decimal.Decimal
	WeightPct      float64
	Sector         string
	Source         SourceTag

	// masterDerived is not part of the persisted schema: it only orders the
	// final deduplication pass.
	masterDerived bool
}

// Consolidated is the single deduplicated, reconciled position dataset used
// by all downstream queries. It is immutable after construction.
type Consolidated struct {
	rows  []Position
	index map[FundID]*fundSeries
}

// fundSeries indexes one fund's rows by date.
type fundSeries struct {
	days []date.Date
	at   map[date.Date][]Position
}

// newConsolidated indexes rows already sorted and deduplicated by the
// reconciliation engine.
func newConsolidated(rows []Position) *Consolidated {
	c := &Consolidated{rows: rows, index: make(map[FundID]*fundSeries)}
	for _, p := range rows {
		s, ok := c.index[p.Fund]
		if !ok {
			s = &fundSeries{at: make(map[date.Date][]Position)}
			c.index[p.Fund] = s
		}
		if _, seen := s.at[p.On]; !seen {
			s.days = append(s.days, p.On)
		}
		s.at[p.On] = append(s.at[p.On], p)
	}
	for _, s := range c.index {
		sort.Slice(s.days, func(i, j int) bool { return s.days[i].Before(s.days[j]) })
	}
	return c
}

// Len returns the number of rows in the table.
func (c *Consolidated) Len() int { return len(c.rows) }

// Rows returns all rows, ordered by (fund, date, asset).
func (c *Consolidated) Rows() []Position {
	rows := make([]Position, len(c.rows))
	copy(rows, c.rows)
	return rows
}

// Funds returns the identifiers of all funds present in the table, sorted.
func (c *Consolidated) Funds() []FundID {
	funds := make([]FundID, 0, len(c.index))
	for id := range c.index {
		funds = append(funds, id)
	}
	sort.Slice(funds, func(i, j int) bool { return funds[i] < funds[j] })
	return funds
}

// Dates returns the sorted dates at which the fund has positions.
// Absence of data is not an error: an unknown fund simply has no dates.
func (c *Consolidated) Dates(fund FundID) []date.Date {
	s, ok := c.index[fund]
	if !ok {
		return nil
	}
	days := make([]date.Date, len(s.days))
	copy(days, s.days)
	return days
}

// LatestDate returns the most recent date at which the fund has positions.
func (c *Consolidated) LatestDate(fund FundID) (date.Date, bool) {
	s, ok := c.index[fund]
	if !ok || len(s.days) == 0 {
		return date.Date{}, false
	}
	return s.days[len(s.days)-1], true
}

// At returns the fund's positions at the given date, ordered by asset.
func (c *Consolidated) At(fund FundID, on date.Date) []Position {
	s, ok := c.index[fund]
	if !ok {
		return nil
	}
	rows := s.at[on]
	out := make([]Position, len(rows))
	copy(out, rows)
	return out
}

// Weights returns the fund's asset weights at the given date, keyed by the
// aggregation axis: asset identifier for ByAsset, sector label for BySector.
// Sector weights are the sums of the member asset weights.
func (c *Consolidated) Weights(fund FundID, on date.Date, by PivotBy) map[string]float64 {
	rows := c.At(fund, on)
	if len(rows) == 0 {
		return nil
	}
	weights := make(map[string]float64, len(rows))
	for _, p := range rows {
		key := p.AssetID
		if by == BySector {
			key = p.Sector
		}
		weights[key] += p.WeightPct
	}
	return weights
}
