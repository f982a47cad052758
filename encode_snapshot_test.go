package fundscope

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/etnz/fundscope/date"
)

func setupSnapshotTable(t *testing.T) *Consolidated {
	t.Helper()
	now := date.New(2024, time.April, 15)
	filings := []*Filing{
		NewFiling(fundA, date.New(2024, time.February, 29), dec(1_000_000), SourceCustody).
			Add("PETR4", dec(300_000)).
			Add("GOV/LTN2026", dec(500_000)).
			Add(AssetCash, dec(200_000)),
		NewFiling(fundB, date.New(2024, time.February, 29), dec(500_000), SourceRegulator).
			Add("VALE3", dec(500_000)),
	}
	return Reconcile(filings, nil, NewClassifier(nil), now)
}

func TestEncodeSnapshot_ColumnContract(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, setupSnapshotTable(t)); err != nil {
		t.Fatalf("EncodeSnapshot failed: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	const want = "fund_id,date,asset_id,value,total_net_assets,weight_pct,sector,source_tag"
	if lines[0] != want {
		t.Errorf("header is %q, want %q", lines[0], want)
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	c := setupSnapshotTable(t)
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, c); err != nil {
		t.Fatalf("EncodeSnapshot failed: %v", err)
	}
	got, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatalf("DecodeSnapshot failed: %v", err)
	}
	if got.Len() != c.Len() {
		t.Fatalf("round trip changed row count: %d vs %d", got.Len(), c.Len())
	}
	a, b := c.Rows(), got.Rows()
	for i := range a {
		if a[i].Fund != b[i].Fund || a[i].On != b[i].On || a[i].AssetID != b[i].AssetID {
			t.Errorf("row %d key changed: %+v vs %+v", i, a[i], b[i])
		}
		if !a[i].Value.Equal(b[i].Value) || !a[i].TotalNetAssets.Equal(b[i].TotalNetAssets) {
			t.Errorf("row %d amounts changed: %+v vs %+v", i, a[i], b[i])
		}
		if a[i].WeightPct != b[i].WeightPct {
			t.Errorf("row %d weight changed: %v vs %v", i, a[i].WeightPct, b[i].WeightPct)
		}
		if a[i].Sector != b[i].Sector || a[i].Source != b[i].Source {
			t.Errorf("row %d labels changed: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestEncodeSnapshot_Deterministic(t *testing.T) {
	c := setupSnapshotTable(t)
	var a, b bytes.Buffer
	if err := EncodeSnapshot(&a, c); err != nil {
		t.Fatal(err)
	}
	if err := EncodeSnapshot(&b, c); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("two encodings of the same table differ")
	}
}

func TestDecodeSnapshot_RejectsWrongHeader(t *testing.T) {
	testCases := []struct {
		name string
		csv  string
	}{
		{"renamed column", "fund,date,asset_id,value,total_net_assets,weight_pct,sector,source_tag\n"},
		{"missing column", "fund_id,date,asset_id,value,total_net_assets,weight_pct,sector\n"},
		{"reordered", "date,fund_id,asset_id,value,total_net_assets,weight_pct,sector,source_tag\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeSnapshot(strings.NewReader(tc.csv)); err == nil {
				t.Error("DecodeSnapshot accepted a broken header")
			}
		})
	}
}

func TestDecodeSnapshot_RejectsBadRow(t *testing.T) {
	header := "fund_id,date,asset_id,value,total_net_assets,weight_pct,sector,source_tag\n"
	bad := header + "11222333000144,2024-02-31x,PETR4,1,2,50,Other,REGULATOR\n"
	if _, err := DecodeSnapshot(strings.NewReader(bad)); err == nil {
		t.Error("DecodeSnapshot accepted an invalid date")
	}
	bad = header + "11222333000144,2024-02-29,PETR4,1,2,50,Other,SPREADSHEET\n"
	if _, err := DecodeSnapshot(strings.NewReader(bad)); err == nil {
		t.Error("DecodeSnapshot accepted an unknown source tag")
	}
}

func TestSaveLoadSnapshot(t *testing.T) {
	dir := t.TempDir()
	c := setupSnapshotTable(t)
	if err := SaveSnapshot(dir, c); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	got, err := LoadSnapshot(dir)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if got.Len() != c.Len() {
		t.Errorf("loaded %d rows, want %d", got.Len(), c.Len())
	}
}

func TestSaveLoadMeta(t *testing.T) {
	dir := t.TempDir()
	meta := BuildMeta{
		RunID:   "0f4be3f2-0000-0000-0000-000000000000",
		BuiltAt: time.Date(2024, time.April, 15, 10, 0, 0, 0, time.UTC),
		Mode:    "full",
		Rows:    4,
	}
	if err := SaveMeta(dir, meta); err != nil {
		t.Fatalf("SaveMeta failed: %v", err)
	}
	got, err := LoadMeta(dir)
	if err != nil {
		t.Fatalf("LoadMeta failed: %v", err)
	}
	if got != meta {
		t.Errorf("LoadMeta = %+v, want %+v", got, meta)
	}
}
