package regulator

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/etnz/fundscope"
	"github.com/etnz/fundscope/date"
	"github.com/shopspring/decimal"
)

// The regulator's tables are semicolon-separated with a fixed header. Every
// row is one (fund, date, asset) observation; the fund-level net asset value
// is repeated on each row.
var tableHeader = []string{
	"CNPJ_FUNDO", "DT_COMPTC", "VL_PATRIM_LIQ", "TP_ATIVO", "CD_ATIVO", "VL_MERC_POS_FINAL",
}

// ParseTable reads one regulator CSV table into normalized filings, tagged
// with the given source. Rows that cannot be normalized are skipped with a
// log line; only a structurally broken table is an error.
func ParseTable(r io.Reader, source fundscope.SourceTag) ([]*fundscope.Filing, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read table header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range tableHeader {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("table is missing column %q", name)
		}
	}

	type key struct {
		fund fundscope.FundID
		on   date.Date
	}
	filings := make(map[key]*fundscope.Filing)
	var order []key

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("table line %d: %w", line, err)
		}

		fund, err := fundscope.NormalizeFundID(record[col["CNPJ_FUNDO"]])
		if err != nil {
			log.Printf("skip table line %d: %v", line, err)
			continue
		}
		on, err := date.Parse(record[col["DT_COMPTC"]])
		if err != nil {
			log.Printf("skip table line %d: %v", line, err)
			continue
		}
		tna, err := parseAmount(record[col["VL_PATRIM_LIQ"]])
		if err != nil {
			log.Printf("skip table line %d: invalid net assets: %v", line, err)
			continue
		}
		value, err := parseAmount(record[col["VL_MERC_POS_FINAL"]])
		if err != nil {
			log.Printf("skip table line %d: invalid value: %v", line, err)
			continue
		}

		k := key{fund, on}
		f, ok := filings[k]
		if !ok {
			f = fundscope.NewFiling(fund, on, tna, source)
			filings[k] = f
			order = append(order, k)
		}
		f.Add(tableAssetID(record[col["TP_ATIVO"]], record[col["CD_ATIVO"]]), value)
	}

	// Input row order follows the regulator's own sorting whims; emit
	// filings in a deterministic order instead.
	sort.Slice(order, func(i, j int) bool {
		if order[i].fund != order[j].fund {
			return order[i].fund < order[j].fund
		}
		return order[i].on.Before(order[j].on)
	})
	out := make([]*fundscope.Filing, 0, len(order))
	for _, k := range order {
		out = append(out, filings[k])
	}
	return out, nil
}

// parseAmount parses the regulator's decimal spelling, which uses a comma
// as the decimal separator and no thousands grouping.
func parseAmount(str string) (decimal.Decimal, error) {
	str = strings.TrimSpace(strings.ReplaceAll(str, ",", "."))
	if str == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(str)
}

// tableAssetID maps a (type, code) pair of the regulator table to the
// normalized asset identifier the classifier understands.
func tableAssetID(kind, code string) string {
	code = strings.TrimSpace(code)
	switch strings.TrimSpace(kind) {
	case "COTA":
		if id, err := fundscope.NormalizeFundID(code); err == nil {
			return fundscope.AssetFundPrefix + string(id)
		}
		return fundscope.AssetFundPrefix + code
	case "TITPUBLICO":
		return fundscope.AssetGovBondPrefix + code
	case "CAIXA":
		return fundscope.AssetCash
	case "DERIVATIVO":
		return fundscope.AssetDerivativePrefix + code
	default:
		return code
	}
}
