package statement

import (
	"testing"
	"time"

	"github.com/etnz/fundscope"
	"github.com/etnz/fundscope/date"
	"github.com/shopspring/decimal"
)

const sampleStatement = `
Relatorio de Posicao

Fundo: 11.222.333/0001-44
Data: 29/02/2024
Patrimonio Liquido: 1.000.000,00

ACAO PETR4 300.000,00
COTA 22.333.444/0001-55 200.000,00
TITPUBLICO LTN2026 250.000,00
CAIXA  150.000,00
DERIVATIVO DI1F27 100.000,00

Pagina 1 de 1
Este documento nao constitui recomendacao de investimento.
`

func TestParseText(t *testing.T) {
	filing, err := ParseText(sampleStatement)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if filing.Fund != fundscope.MustFundID("11222333000144") {
		t.Errorf("fund = %s", filing.Fund)
	}
	if want := date.New(2024, time.February, 29); filing.On != want {
		t.Errorf("date = %s want %s", filing.On, want)
	}
	if !filing.TotalNetAssets.Equal(decimal.NewFromInt(1000000)) {
		t.Errorf("net assets = %s want 1000000", filing.TotalNetAssets)
	}
	if filing.Source != fundscope.SourceCustody {
		t.Errorf("source = %s want %s", filing.Source, fundscope.SourceCustody)
	}

	want := map[string]float64{
		"PETR4":               300000,
		"FUND/22333444000155": 200000,
		"GOV/LTN2026":         250000,
		fundscope.AssetCash:   150000,
		"DERIV/DI1F27":        100000,
	}
	if len(filing.Positions) != len(want) {
		t.Fatalf("got %d positions want %d: %+v", len(filing.Positions), len(want), filing.Positions)
	}
	for _, p := range filing.Positions {
		w, ok := want[p.AssetID]
		if !ok {
			t.Errorf("unexpected asset %q", p.AssetID)
			continue
		}
		if !p.Value.Equal(decimal.NewFromFloat(w)) {
			t.Errorf("asset %q value = %s want %v", p.AssetID, p.Value, w)
		}
	}
}

func TestParseText_MissingMandatoryFields(t *testing.T) {
	testCases := []struct {
		name, text string
	}{
		{"no fund", "Data: 29/02/2024\nPatrimonio Liquido: 1,00\n"},
		{"no date", "Fundo: 11.222.333/0001-44\nPatrimonio Liquido: 1,00\n"},
		{"no net assets", "Fundo: 11.222.333/0001-44\nData: 29/02/2024\n"},
		{"empty", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseText(tc.text); err == nil {
				t.Error("ParseText accepted a statement with missing mandatory fields")
			}
		})
	}
}

func TestParseText_NoPositionsIsLegal(t *testing.T) {
	text := "Fundo: 11.222.333/0001-44\nData: 29/02/2024\nPatrimonio Liquido: 1.000,00\n"
	filing, err := ParseText(text)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if len(filing.Positions) != 0 {
		t.Errorf("positions = %+v, want none", filing.Positions)
	}
}

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		str  string
		want float64
	}{
		{"1.234.567,89", 1234567.89},
		{"1000,50", 1000.50},
		{"42", 42},
	}
	for _, tc := range testCases {
		got, err := parseAmount(tc.str)
		if err != nil || !got.Equal(decimal.NewFromFloat(tc.want)) {
			t.Errorf("parseAmount(%q) = %s, %v want %v", tc.str, got, err, tc.want)
		}
	}
	if _, err := parseAmount("n/a"); err == nil {
		t.Error("parseAmount accepted a non-number")
	}
}
