package fundscope

import (
	"github.com/etnz/fundscope/date"
	"github.com/shopspring/decimal"
)

// Asset identifier prefixes. Parsers flatten every asset kind into the same
// position list; non-equity kinds carry one of these prefixes so the sector
// classifier can pattern-match its fallback categories.
const (
	AssetFundPrefix       = "FUND/"  // fund-of-fund reference, followed by the target fund id
	AssetGovBondPrefix    = "GOV/"   // public bond reference
	AssetDerivativePrefix = "DERIV/" // derivative position
	AssetCash             = "CASH"   // cash and deposits, a single bucket per filing
)

// FilingPosition is one asset line of a filing: an asset identifier and its
// monetary value in the source currency.
type FilingPosition struct {
	AssetID string
	Value   decimal.Decimal
}

// Filing is one dated disclosure of a fund's complete holdings from one source.
//
// Parsers produce zero or one Filing per raw document. A Filing never carries
// weights: those are computed at consolidation time, once the authoritative
// TotalNetAssets for the (fund, date) is settled.
type Filing struct {
	Fund           FundID
	On             date.Date
	TotalNetAssets decimal.Decimal
	Source         SourceTag
	Positions      []FilingPosition

	// masterDerived marks a filing copied from a master fund under a feeder's
	// identifier. It never comes from a parser.
	masterDerived bool
}

// NewFiling returns an empty filing for the given fund, date and source.
// A zero or negative TotalNetAssets is legal: downstream weights are 0.
func NewFiling(fund FundID, on date.Date, totalNetAssets decimal.Decimal, source SourceTag) *Filing {
	return &Filing{Fund: fund, On: on, TotalNetAssets: totalNetAssets, Source: source}
}

// Add appends a position to the filing. Positions with a non-positive value
// are dropped, per the parser contract.
func (f *Filing) Add(assetID string, value decimal.Decimal) *Filing {
	if !value.IsPositive() {
		return f
	}
	f.Positions = append(f.Positions, FilingPosition{AssetID: assetID, Value: value})
	return f
}

// MasterDerived reports whether this filing was copied from a master fund.
func (f *Filing) MasterDerived() bool { return f.masterDerived }

// weightPct computes a holding weight in percent. A zero or negative total
// yields 0, not an error, and a weight is never negative.
func weightPct(value, totalNetAssets decimal.Decimal) float64 {
	if !totalNetAssets.IsPositive() {
		return 0
	}
	w, _ := value.Div(totalNetAssets).Mul(decimal.NewFromInt(100)).Float64()
	if w < 0 {
		return 0
	}
	return w
}
