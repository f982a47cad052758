package fundscope

import (
	"sort"

	"github.com/etnz/fundscope/date"
)

// PivotBy selects the aggregation axis of a pivot: one column per asset, or
// one column per sector.
type PivotBy int

const (
	ByAsset PivotBy = iota
	BySector
)

// ParsePivotBy parses the command-line spelling of a pivot axis.
func ParsePivotBy(str string) (PivotBy, bool) {
	switch str {
	case "asset":
		return ByAsset, true
	case "sector":
		return BySector, true
	}
	return 0, false
}

// OtherBucket is the column name that absorbs collapsed series in a top-N pivot.
const OtherBucket = "Other"

// Pivot is a date-indexed table of weight columns for one fund, one column
// per asset (or sector). Missing (date, column) combinations are filled with
// 0, not omitted: a stacked composition view must sum to ~100% at every date.
type Pivot struct {
	Fund FundID
	days []date.Date
	keys []string
	// cells[i][j] is the weight at days[i] for keys[j].
	cells [][]float64
}

// Pivot builds the weight-by-date table for one fund over its full history.
func (c *Consolidated) Pivot(fund FundID, by PivotBy) *Pivot {
	days := c.Dates(fund)

	series := make(map[string]*date.History[float64])
	for _, on := range days {
		for key, w := range c.Weights(fund, on, by) {
			h, ok := series[key]
			if !ok {
				h = &date.History[float64]{}
				series[key] = h
			}
			h.Append(on, w)
		}
	}

	keys := make([]string, 0, len(series))
	for key := range series {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	p := &Pivot{Fund: fund, days: days, keys: keys}
	for _, on := range days {
		row := make([]float64, len(keys))
		for j, key := range keys {
			if w, ok := series[key].Get(on); ok {
				row[j] = w
			}
		}
		p.cells = append(p.cells, row)
	}
	return p
}

// Dates returns the pivot's date axis, in chronological order.
func (p *Pivot) Dates() []date.Date { return p.days }

// Keys returns the pivot's column names.
func (p *Pivot) Keys() []string { return p.keys }

// Row returns the weights at the i-th date, aligned with Keys.
func (p *Pivot) Row(i int) []float64 { return p.cells[i] }

// mean returns the mean weight of the j-th column over the full date range.
func (p *Pivot) mean(j int) float64 {
	if len(p.cells) == 0 {
		return 0
	}
	var sum float64
	for _, row := range p.cells {
		sum += row[j]
	}
	return sum / float64(len(p.cells))
}

// CollapseTopN ranks columns by mean weight over the full date range, keeps
// the top n, and sums the remainder into a trailing OtherBucket column. This
// bounds the series cardinality regardless of how many distinct assets
// appear historically. A pivot with n or fewer columns is returned unchanged.
func (p *Pivot) CollapseTopN(n int) *Pivot {
	if len(p.keys) <= n {
		return p
	}

	ranked := make([]int, len(p.keys))
	for j := range ranked {
		ranked[j] = j
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		ma, mb := p.mean(ranked[a]), p.mean(ranked[b])
		if ma != mb {
			return ma > mb
		}
		return p.keys[ranked[a]] < p.keys[ranked[b]]
	})
	top := ranked[:n]

	out := &Pivot{Fund: p.Fund, days: p.days}
	for _, j := range top {
		out.keys = append(out.keys, p.keys[j])
	}
	out.keys = append(out.keys, OtherBucket)

	dropped := make(map[int]bool, len(ranked)-n)
	for _, j := range ranked[n:] {
		dropped[j] = true
	}
	for _, row := range p.cells {
		newRow := make([]float64, 0, n+1)
		for _, j := range top {
			newRow = append(newRow, row[j])
		}
		var other float64
		for j, w := range row {
			if dropped[j] {
				other += w
			}
		}
		out.cells = append(out.cells, append(newRow, other))
	}
	return out
}

// Current returns the fund's positions at its most recent date, sorted
// descending by weight. It reports false when the fund has no data at all.
func (c *Consolidated) Current(fund FundID) ([]Position, bool) {
	on, ok := c.LatestDate(fund)
	if !ok {
		return nil, false
	}
	rows := c.At(fund, on)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].WeightPct != rows[j].WeightPct {
			return rows[i].WeightPct > rows[j].WeightPct
		}
		return rows[i].AssetID < rows[j].AssetID
	})
	return rows, true
}

// TopHoldings returns the asset identifiers of the fund's n largest current
// positions by weight.
func (c *Consolidated) TopHoldings(fund FundID, n int) []string {
	rows, ok := c.Current(fund)
	if !ok {
		return nil
	}
	if len(rows) > n {
		rows = rows[:n]
	}
	assets := make([]string, 0, len(rows))
	for _, p := range rows {
		assets = append(assets, p.AssetID)
	}
	return assets
}
