package fundscope

import (
	"sort"

	"github.com/etnz/fundscope/date"
)

// Overlap is the similarity score between two weight distributions: the sum,
// over assets present in both, of the minimum of the two weights.
//
// min is deliberate (rather than product or average): it is the maximum mass
// that could theoretically be shared if both funds held the asset as the
// same underlying exposure. With valid percentage weights the score is
// bounded in [0, 100].
func Overlap(a, b map[string]float64) float64 {
	var sum float64
	for key, wa := range a {
		wb, ok := b[key]
		if !ok {
			continue
		}
		if wa < wb {
			sum += wa
		} else {
			sum += wb
		}
	}
	return sum
}

// OverlapAt computes the overlap of two funds at one date, on the given
// axis. A fund compared to itself is 0 by convention: the diagonal signals
// "not meaningful", not "full self-overlap".
func (c *Consolidated) OverlapAt(a, b FundID, on date.Date, by PivotBy) float64 {
	if a == b {
		return 0
	}
	return Overlap(c.Weights(a, on, by), c.Weights(b, on, by))
}

// OverlapSeries computes the overlap of two funds at each date present in
// both histories. Dates covered by only one fund produce no entry: the
// series runs over the intersection of dates, never interpolating.
func (c *Consolidated) OverlapSeries(a, b FundID, by PivotBy) *date.History[float64] {
	series := &date.History[float64]{}
	if a == b {
		return series
	}
	common := make(map[date.Date]bool)
	for _, on := range c.Dates(a) {
		common[on] = true
	}
	for _, on := range c.Dates(b) {
		if common[on] {
			series.Append(on, c.OverlapAt(a, b, on, by))
		}
	}
	return series
}

// LatestCommonDate returns the most recent date present in both funds'
// histories.
func (c *Consolidated) LatestCommonDate(a, b FundID) (date.Date, bool) {
	inA := make(map[date.Date]bool)
	for _, on := range c.Dates(a) {
		inA[on] = true
	}
	var best date.Date
	var found bool
	for _, on := range c.Dates(b) {
		if inA[on] && (!found || on.After(best)) {
			best, found = on, true
		}
	}
	return best, found
}

// OverlapMatrix computes the pairwise overlap for a list of funds, each pair
// at its most recent common date. The matrix is symmetric with a zero
// diagonal; pairs with no common date are 0.
func (c *Consolidated) OverlapMatrix(funds []FundID, by PivotBy) [][]float64 {
	m := make([][]float64, len(funds))
	for i := range m {
		m[i] = make([]float64, len(funds))
	}
	for i := 0; i < len(funds); i++ {
		for j := i + 1; j < len(funds); j++ {
			on, ok := c.LatestCommonDate(funds[i], funds[j])
			if !ok {
				continue
			}
			v := c.OverlapAt(funds[i], funds[j], on, by)
			m[i][j], m[j][i] = v, v
		}
	}
	return m
}

// CommonHolding is one asset held by every fund of a comparison set, with
// each fund's current weight for it.
type CommonHolding struct {
	AssetID string
	Sector  string
	Weights map[FundID]float64
}

// commonTopSize is how many of each fund's largest holdings enter the
// intersection for the common-holdings table.
const commonTopSize = 15

// CommonTopHoldings intersects each fund's current top holdings and reports,
// for every asset in the intersection, each fund's current weight. It needs
// at least two funds; fewer produce no rows.
func (c *Consolidated) CommonTopHoldings(funds []FundID) []CommonHolding {
	if len(funds) < 2 {
		return nil
	}
	counts := make(map[string]int)
	for _, f := range funds {
		for _, asset := range c.TopHoldings(f, commonTopSize) {
			counts[asset]++
		}
	}

	var shared []string
	for asset, n := range counts {
		if n == len(funds) {
			shared = append(shared, asset)
		}
	}
	sort.Strings(shared)

	sectors := make(map[string]string)
	weights := make(map[FundID]map[string]float64, len(funds))
	for _, f := range funds {
		rows, ok := c.Current(f)
		if !ok {
			continue
		}
		weights[f] = make(map[string]float64, len(rows))
		for _, p := range rows {
			weights[f][p.AssetID] = p.WeightPct
			sectors[p.AssetID] = p.Sector
		}
	}

	out := make([]CommonHolding, 0, len(shared))
	for _, asset := range shared {
		h := CommonHolding{AssetID: asset, Sector: sectors[asset], Weights: make(map[FundID]float64, len(funds))}
		for _, f := range funds {
			h.Weights[f] = weights[f][asset]
		}
		out = append(out, h)
	}
	return out
}
