package fundscope

import (
	"sort"

	"github.com/etnz/fundscope/date"
)

// StalenessWindowMonths is the trailing window within which the custody feed
// must have reported to keep precedence over the regulator source for a fund.
const StalenessWindowMonths = 6

// Reconcile collapses possibly-duplicate filings into the consolidated table.
//
// It is a pure function: given the same filings, registry and reference date
// it produces the same table, row for row. The steps run in a fixed order:
//
//  1. intra-source dedup: for the same (source, fund, date) seen through
//     several raw documents, keep the filing with the larger total net assets.
//     This is a heuristic standing in for a true completeness signal: a more
//     finalized filing tends to report a larger, more accurate total.
//  2. cross-source precedence, decided per fund: the custody feed wins over
//     the regulator only while its latest filing is within the trailing
//     staleness window of 'now'. A fund whose custody feed has gone stale
//     falls back fully to the regulator, old custody dates included.
//  3. feeder/master substitution: a feeder's positions are its master's
//     positions, duplicated under the feeder's identifier. A master-derived
//     filing supersedes a feeder-direct filing at the same date.
//  4. final dedup on rows: stable sort by (fund, date, masterDerived, asset)
//     and keep the last row per (fund, date, asset) key.
//
// Filings referencing funds absent from the registry are accepted and
// included: on-demand lookups legitimately cover funds outside it.
// Absence of data for a fund or date produces no rows, never an error.
func Reconcile(filings []*Filing, registry *Registry, classifier *Classifier, now date.Date) *Consolidated {
	kept := dedupIntraSource(filings)
	kept = applyPrecedence(kept, now)
	kept = substituteFeeders(kept, registry)
	rows := flatten(kept, classifier)
	rows = dedupRows(rows)
	return newConsolidated(rows)
}

// filingKey identifies a filing inside one document source.
type filingKey struct {
	source SourceTag
	fund   FundID
	on     date.Date
}

// dedupIntraSource keeps, per (source, fund, date), the filing with the
// larger total net assets. Order of the result is deterministic.
func dedupIntraSource(filings []*Filing) []*Filing {
	best := make(map[filingKey]*Filing, len(filings))
	order := make([]filingKey, 0, len(filings))
	for _, f := range filings {
		k := filingKey{f.Source, f.Fund, f.On}
		cur, ok := best[k]
		if !ok {
			best[k] = f
			order = append(order, k)
			continue
		}
		if f.TotalNetAssets.GreaterThan(cur.TotalNetAssets) {
			best[k] = f
		}
	}
	kept := make([]*Filing, 0, len(order))
	for _, k := range order {
		kept = append(kept, best[k])
	}
	return kept
}

// applyPrecedence resolves the custody/regulator conflict per fund.
func applyPrecedence(filings []*Filing, now date.Date) []*Filing {
	// Latest custody date and custody coverage per fund.
	latestCustody := make(map[FundID]date.Date)
	custodyDates := make(map[FundID]map[date.Date]bool)
	for _, f := range filings {
		if !f.Source.isCustody() {
			continue
		}
		if last, ok := latestCustody[f.Fund]; !ok || f.On.After(last) {
			latestCustody[f.Fund] = f.On
		}
		if custodyDates[f.Fund] == nil {
			custodyDates[f.Fund] = make(map[date.Date]bool)
		}
		custodyDates[f.Fund][f.On] = true
	}

	horizon := now.AddMonths(-StalenessWindowMonths)
	fresh := func(fund FundID) bool {
		last, ok := latestCustody[fund]
		return ok && !last.Before(horizon)
	}

	kept := filings[:0:0]
	for _, f := range filings {
		if f.Source.isCustody() {
			// Stale custody: the whole feed is dropped for this fund, even
			// dates the regulator does not cover. Precedence is a fund-level
			// decision, not a per-date one.
			if !fresh(f.Fund) {
				continue
			}
			kept = append(kept, f)
			continue
		}
		// Regulator filing: shadowed only where fresh custody covers the date.
		if fresh(f.Fund) && custodyDates[f.Fund][f.On] {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// substituteFeeders copies every master's filing history under each of its
// feeders' identifiers. A feeder-direct filing at a date the master also
// covers is superseded: feeders often lack asset-level granularity, so the
// master-derived filing is assumed more complete. Values and total net
// assets are copied as-is from the master; feeder and master share the same
// underlying asset pool so weights are the master's weights.
//
// Expansion is single-level: a master's own master, if any, is not chased.
func substituteFeeders(filings []*Filing, registry *Registry) []*Filing {
	if registry == nil || registry.Len() == 0 {
		return filings
	}
	byFund := make(map[FundID][]*Filing)
	for _, f := range filings {
		byFund[f.Fund] = append(byFund[f.Fund], f)
	}

	out := make([]*Filing, len(filings))
	copy(out, filings)
	for _, feeder := range registry.Feeders() {
		masters := byFund[feeder.Master]
		if len(masters) == 0 {
			// Inconsistent reference: the master yields no data. The feeder
			// degrades to "no positions", it is not an error.
			continue
		}
		covered := make(map[date.Date]bool, len(masters))
		for _, m := range masters {
			covered[m.On] = true
			derived := &Filing{
				Fund:           feeder.ID,
				On:             m.On,
				TotalNetAssets: m.TotalNetAssets,
				Source:         m.Source,
				Positions:      m.Positions,
				masterDerived:  true,
			}
			out = append(out, derived)
		}
		// Remove the feeder's direct filings at dates the master covers.
		trimmed := out[:0]
		for _, f := range out {
			if f.Fund == feeder.ID && !f.masterDerived && covered[f.On] {
				continue
			}
			trimmed = append(trimmed, f)
		}
		out = trimmed
	}
	return out
}

// flatten turns filings into table rows, computing weights and sectors.
func flatten(filings []*Filing, classifier *Classifier) []Position {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	var rows []Position
	for _, f := range filings {
		for _, p := range f.Positions {
			rows = append(rows, Position{
				Fund:           f.Fund,
				On:             f.On,
				AssetID:        p.AssetID,
				Value:          p.Value,
				TotalNetAssets: f.TotalNetAssets,
				WeightPct:      weightPct(p.Value, f.TotalNetAssets),
				Sector:         classifier.Sector(p.AssetID),
				Source:         f.Source,
				masterDerived:  f.masterDerived,
			})
		}
	}
	return rows
}

// dedupRows enforces (fund, date, asset) uniqueness. The stable sort orders
// master-derived rows after direct ones, so keeping the last row per key
// makes the master-derived row win. Ties that remain (same key, same
// derivation) keep the last filing appended, which is deterministic because
// every earlier step preserves input order.
func dedupRows(rows []Position) []Position {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Fund != b.Fund {
			return a.Fund < b.Fund
		}
		if cmp := a.On.Compare(b.On); cmp != 0 {
			return cmp < 0
		}
		if a.masterDerived != b.masterDerived {
			return !a.masterDerived
		}
		return a.AssetID < b.AssetID
	})

	type rowKey struct {
		fund  FundID
		on    date.Date
		asset string
	}
	last := make(map[rowKey]int, len(rows))
	for i, r := range rows {
		last[rowKey{r.Fund, r.On, r.AssetID}] = i
	}
	out := make([]Position, 0, len(last))
	for i, r := range rows {
		if last[rowKey{r.Fund, r.On, r.AssetID}] == i {
			out = append(out, r)
		}
	}
	// The survivors are already sorted by (fund, date, asset) except that
	// master-derived winners may sit after a neighbor asset; restore the
	// canonical (fund, date, asset) order of the table.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Fund != b.Fund {
			return a.Fund < b.Fund
		}
		if cmp := a.On.Compare(b.On); cmp != 0 {
			return cmp < 0
		}
		return a.AssetID < b.AssetID
	})
	return out
}
