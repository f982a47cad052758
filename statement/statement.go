// Package statement parses vendor PDF position statements into normalized
// filings.
//
// Statements are the custody channel's paper trail: a header block naming
// the fund, the position date and the net asset value, followed by one line
// per position. The PDF layer only yields a text stream; the grammar below
// does the rest. Like every parser, a statement that cannot be normalized
// means "skip this document", never a fatal error.
package statement

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/etnz/fundscope"
	"github.com/etnz/fundscope/date"
	"github.com/ledongthuc/pdf"
	"github.com/shopspring/decimal"
)

// statementDateFormat is the day/month/year spelling used by the vendor.
const statementDateFormat = "02/01/2006"

var (
	fundRe     = regexp.MustCompile(`(?i)^Fundo:\s*([\d./-]+)`)
	dateRe     = regexp.MustCompile(`(?i)^Data:\s*(\d{2}/\d{2}/\d{4})`)
	netRe      = regexp.MustCompile(`(?i)^Patrimonio Liquido:\s*([\d.,-]+)`)
	// The code group is lazy: a greedy \S* would swallow the amount of a
	// code-less CAIXA line.
	positionRe = regexp.MustCompile(`^(ACAO|COTA|TITPUBLICO|CAIXA|DERIVATIVO)\s+(\S*?)\s*([\d.,]+)$`)
)

// ParseFile extracts the text of a PDF statement and normalizes it.
func ParseFile(path string) (*fundscope.Filing, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open statement %q: %w", path, err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("cannot extract text from statement %q: %w", path, err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return nil, fmt.Errorf("cannot read statement text %q: %w", path, err)
	}
	return ParseText(buf.String())
}

// ParseText normalizes the text content of one statement.
func ParseText(text string) (*fundscope.Filing, error) {
	var fund fundscope.FundID
	var on date.Date
	tna := decimal.Zero
	var haveFund, haveDate, haveNet bool

	type line struct {
		kind, code string
		value      decimal.Decimal
	}
	var positions []line

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		txt := strings.TrimSpace(scanner.Text())
		if txt == "" {
			continue
		}
		if m := fundRe.FindStringSubmatch(txt); m != nil {
			id, err := fundscope.NormalizeFundID(m[1])
			if err != nil {
				return nil, fmt.Errorf("statement names an invalid fund: %w", err)
			}
			fund, haveFund = id, true
			continue
		}
		if m := dateRe.FindStringSubmatch(txt); m != nil {
			when, err := time.Parse(statementDateFormat, m[1])
			if err != nil {
				return nil, fmt.Errorf("statement has an invalid date %q: %w", m[1], err)
			}
			on, haveDate = date.New(when.Date()), true
			continue
		}
		if m := netRe.FindStringSubmatch(txt); m != nil {
			v, err := parseAmount(m[1])
			if err != nil {
				return nil, fmt.Errorf("statement has an invalid net asset value %q: %w", m[1], err)
			}
			tna, haveNet = v, true
			continue
		}
		if m := positionRe.FindStringSubmatch(txt); m != nil {
			v, err := parseAmount(m[3])
			if err != nil {
				return nil, fmt.Errorf("statement has an invalid position value %q: %w", m[3], err)
			}
			positions = append(positions, line{kind: m[1], code: m[2], value: v})
		}
		// Anything else is boilerplate: footers, page numbers, disclaimers.
	}

	if !haveFund || !haveDate || !haveNet {
		return nil, fmt.Errorf("statement is missing mandatory fields (fund=%v date=%v net=%v)", haveFund, haveDate, haveNet)
	}

	filing := fundscope.NewFiling(fund, on, tna, fundscope.SourceCustody)
	for _, p := range positions {
		filing.Add(assetID(p.kind, p.code), p.value)
	}
	return filing, nil
}

// assetID tags a statement position with the normalized prefix of its kind.
func assetID(kind, code string) string {
	switch kind {
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

// parseAmount parses the vendor's "1.234.567,89" number spelling.
func parseAmount(str string) (decimal.Decimal, error) {
	str = strings.ReplaceAll(str, ".", "")
	str = strings.ReplaceAll(str, ",", ".")
	return decimal.NewFromString(str)
}
