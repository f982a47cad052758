package regulator

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/fundscope"
	"github.com/etnz/fundscope/date"
	"github.com/shopspring/decimal"
)

const sampleTable = `CNPJ_FUNDO;DT_COMPTC;VL_PATRIM_LIQ;TP_ATIVO;CD_ATIVO;VL_MERC_POS_FINAL
11.222.333/0001-44;2024-02-29;1000000,00;ACAO;PETR4;300000,00
11.222.333/0001-44;2024-02-29;1000000,00;COTA;22333444000155;200000,00
11.222.333/0001-44;2024-02-29;1000000,00;TITPUBLICO;LTN2026;250000,50
11.222.333/0001-44;2024-02-29;1000000,00;CAIXA;;150000,00
22.333.444/0001-55;2024-02-29;500000,00;ACAO;VALE3;500000,00
`

func TestParseTable(t *testing.T) {
	filings, err := ParseTable(strings.NewReader(sampleTable), fundscope.SourceRegulator)
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	if len(filings) != 2 {
		t.Fatalf("got %d filings, want 2", len(filings))
	}

	// Deterministic ordering by (fund, date).
	first := filings[0]
	if first.Fund != fundscope.MustFundID("11222333000144") {
		t.Errorf("first filing fund = %s", first.Fund)
	}
	if want := date.New(2024, time.February, 29); first.On != want {
		t.Errorf("first filing date = %s want %s", first.On, want)
	}
	if !first.TotalNetAssets.Equal(decimal.NewFromInt(1000000)) {
		t.Errorf("first filing net assets = %s", first.TotalNetAssets)
	}
	if first.Source != fundscope.SourceRegulator {
		t.Errorf("source = %s", first.Source)
	}
	if len(first.Positions) != 4 {
		t.Fatalf("first filing has %d positions, want 4", len(first.Positions))
	}

	byAsset := make(map[string]decimal.Decimal)
	for _, p := range first.Positions {
		byAsset[p.AssetID] = p.Value
	}
	if v := byAsset["FUND/22333444000155"]; !v.Equal(decimal.NewFromInt(200000)) {
		t.Errorf("fund-of-fund position = %s", v)
	}
	if v := byAsset["GOV/LTN2026"]; !v.Equal(decimal.NewFromFloat(250000.50)) {
		t.Errorf("bond position = %s, comma decimal not parsed", v)
	}
	if v := byAsset[fundscope.AssetCash]; !v.Equal(decimal.NewFromInt(150000)) {
		t.Errorf("cash position = %s", v)
	}
}

func TestParseTable_SkipsBadRows(t *testing.T) {
	table := `CNPJ_FUNDO;DT_COMPTC;VL_PATRIM_LIQ;TP_ATIVO;CD_ATIVO;VL_MERC_POS_FINAL
garbage;2024-02-29;1000,00;ACAO;PETR4;100,00
11.222.333/0001-44;not-a-date;1000,00;ACAO;PETR4;100,00
11.222.333/0001-44;2024-02-29;1000,00;ACAO;PETR4;100,00
`
	filings, err := ParseTable(strings.NewReader(table), fundscope.SourceRegulator)
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	if len(filings) != 1 || len(filings[0].Positions) != 1 {
		t.Errorf("got %d filings, want only the one valid row", len(filings))
	}
}

func TestParseTable_MissingColumn(t *testing.T) {
	table := "CNPJ_FUNDO;DT_COMPTC;TP_ATIVO;CD_ATIVO;VL_MERC_POS_FINAL\n"
	if _, err := ParseTable(strings.NewReader(table), fundscope.SourceRegulator); err == nil {
		t.Error("ParseTable accepted a table without VL_PATRIM_LIQ")
	}
}

func TestParseTable_ReorderedColumns(t *testing.T) {
	// Column positions move between vintages; the header map must follow.
	table := `DT_COMPTC;CNPJ_FUNDO;VL_MERC_POS_FINAL;VL_PATRIM_LIQ;TP_ATIVO;CD_ATIVO
2024-02-29;11.222.333/0001-44;100,00;1000,00;ACAO;PETR4
`
	filings, err := ParseTable(strings.NewReader(table), fundscope.SourceRegulator)
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	if len(filings) != 1 {
		t.Fatalf("got %d filings, want 1", len(filings))
	}
	p := filings[0].Positions[0]
	if p.AssetID != "PETR4" || !p.Value.Equal(decimal.NewFromInt(100)) {
		t.Errorf("position = %+v", p)
	}
}

func TestTableAssetID(t *testing.T) {
	testCases := []struct {
		kind, code, want string
	}{
		{"ACAO", "PETR4", "PETR4"},
		{"COTA", "22.333.444/0001-55", "FUND/22333444000155"},
		{"TITPUBLICO", "LTN2026", "GOV/LTN2026"},
		{"CAIXA", "", "CASH"},
		{"DERIVATIVO", "DI1F27", "DERIV/DI1F27"},
		{" ACAO ", " PETR4 ", "PETR4"},
	}
	for _, tc := range testCases {
		if got := tableAssetID(tc.kind, tc.code); got != tc.want {
			t.Errorf("tableAssetID(%q, %q) = %q want %q", tc.kind, tc.code, got, tc.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		str     string
		want    float64
		wantErr bool
	}{
		{"1000,50", 1000.50, false},
		{"1000", 1000, false},
		{"", 0, false},
		{"abc", 0, true},
	}
	for _, tc := range testCases {
		got, err := parseAmount(tc.str)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseAmount(%q) = %s want an error", tc.str, got)
			}
			continue
		}
		if err != nil || !got.Equal(decimal.NewFromFloat(tc.want)) {
			t.Errorf("parseAmount(%q) = %s, %v want %v", tc.str, got, err, tc.want)
		}
	}
}
