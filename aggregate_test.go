package fundscope

import (
	"math"
	"testing"
	"time"

	"github.com/etnz/fundscope/date"
)

// setupPivotTable builds two dates for fundA where asset Y only exists at the
// second date, to exercise zero-filling.
func setupPivotTable(t *testing.T) *Consolidated {
	t.Helper()
	now := date.New(2024, time.April, 15)
	jan := date.New(2024, time.January, 31)
	feb := date.New(2024, time.February, 29)
	filings := []*Filing{
		NewFiling(fundA, jan, dec(100), SourceRegulator).Add("X", dec(100)),
		NewFiling(fundA, feb, dec(100), SourceRegulator).Add("X", dec(60)).Add("Y", dec(40)),
	}
	return Reconcile(filings, nil, nil, now)
}

func TestPivot_ZeroFill(t *testing.T) {
	c := setupPivotTable(t)
	p := c.Pivot(fundA, ByAsset)

	if got := p.Keys(); len(got) != 2 || got[0] != "X" || got[1] != "Y" {
		t.Fatalf("keys = %v, want [X Y]", got)
	}
	if got := p.Dates(); len(got) != 2 {
		t.Fatalf("dates = %v, want 2 entries", got)
	}
	// January: Y did not exist, its cell must be 0, not missing.
	if row := p.Row(0); row[0] != 100 || row[1] != 0 {
		t.Errorf("january row = %v, want [100 0]", row)
	}
	if row := p.Row(1); row[0] != 60 || row[1] != 40 {
		t.Errorf("february row = %v, want [60 40]", row)
	}
}

func TestPivot_BySector(t *testing.T) {
	now := date.New(2024, time.April, 15)
	on := date.New(2024, time.March, 31)
	filings := []*Filing{
		NewFiling(fundA, on, dec(100), SourceRegulator).
			Add("GOV/LTN2026", dec(30)).
			Add("GOV/NTNB2030", dec(20)).
			Add(AssetCash, dec(50)),
	}
	c := Reconcile(filings, nil, NewClassifier(nil), now)

	p := c.Pivot(fundA, BySector)
	keys := p.Keys()
	if len(keys) != 2 {
		t.Fatalf("keys = %v, want [Cash, Government Bonds]", keys)
	}
	weights := map[string]float64{}
	for j, key := range keys {
		weights[key] = p.Row(0)[j]
	}
	if weights[SectorGovBonds] != 50 {
		t.Errorf("bond sector weight = %v, want the 30+20 sum", weights[SectorGovBonds])
	}
	if weights[SectorCash] != 50 {
		t.Errorf("cash sector weight = %v, want 50", weights[SectorCash])
	}
}

func TestCollapseTopN(t *testing.T) {
	now := date.New(2024, time.April, 15)
	on := date.New(2024, time.March, 31)
	filings := []*Filing{
		NewFiling(fundA, on, dec(100), SourceRegulator).
			Add("A", dec(40)).Add("B", dec(30)).Add("C", dec(20)).Add("D", dec(7)).Add("E", dec(3)),
	}
	c := Reconcile(filings, nil, nil, now)

	p := c.Pivot(fundA, ByAsset).CollapseTopN(2)
	keys := p.Keys()
	if len(keys) != 3 || keys[0] != "A" || keys[1] != "B" || keys[2] != OtherBucket {
		t.Fatalf("keys = %v, want [A B Other]", keys)
	}
	row := p.Row(0)
	// Other must be the exact sum of the dropped series, no re-normalization.
	if got, want := row[2], 20.0+7+3; math.Abs(got-want) > 1e-9 {
		t.Errorf("Other = %v, want %v", got, want)
	}
	var total float64
	for _, w := range row {
		total += w
	}
	if math.Abs(total-100) > 1e-9 {
		t.Errorf("collapsed row sums to %v, want 100", total)
	}
}

func TestCollapseTopN_FewColumnsUnchanged(t *testing.T) {
	c := setupPivotTable(t)
	p := c.Pivot(fundA, ByAsset)
	if got := p.CollapseTopN(5); got != p {
		t.Error("pivot with fewer columns than n must be returned unchanged")
	}
}

func TestCurrent(t *testing.T) {
	c := setupPivotTable(t)

	rows, ok := c.Current(fundA)
	if !ok {
		t.Fatal("Current reported no data")
	}
	// Latest date only, sorted descending by weight.
	want := date.New(2024, time.February, 29)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for _, p := range rows {
		if p.On != want {
			t.Errorf("row %s dated %s, want the latest %s", p.AssetID, p.On, want)
		}
	}
	if rows[0].AssetID != "X" || rows[1].AssetID != "Y" {
		t.Errorf("rows ordered %s, %s; want X (60%%) before Y (40%%)", rows[0].AssetID, rows[1].AssetID)
	}

	if _, ok := c.Current(MustFundID("99999999999999")); ok {
		t.Error("Current reported data for an unknown fund")
	}
}

func TestTopHoldings(t *testing.T) {
	c := setupPivotTable(t)
	if got := c.TopHoldings(fundA, 1); len(got) != 1 || got[0] != "X" {
		t.Errorf("TopHoldings = %v, want [X]", got)
	}
	if got := c.TopHoldings(fundA, 10); len(got) != 2 {
		t.Errorf("TopHoldings with a large n = %v, want both assets", got)
	}
}

func TestParsePivotBy(t *testing.T) {
	if by, ok := ParsePivotBy("asset"); !ok || by != ByAsset {
		t.Errorf("ParsePivotBy(asset) = %v, %v", by, ok)
	}
	if by, ok := ParsePivotBy("sector"); !ok || by != BySector {
		t.Errorf("ParsePivotBy(sector) = %v, %v", by, ok)
	}
	if _, ok := ParsePivotBy("country"); ok {
		t.Error("ParsePivotBy accepted an unknown axis")
	}
}
