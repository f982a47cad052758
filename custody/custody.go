// Package custody fetches and parses the proprietary XML custody feed.
//
// The feed publishes one XML document per fund per disclosure date, in two
// vintages: the legacy flat format (one <ativo> element per position) and
// the current nested format (one section per asset class). Both normalize
// into the same fundscope.Filing contract; a document that cannot be
// normalized is skipped by callers, never fatal.
package custody

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/fundscope"
	"github.com/etnz/fundscope/date"
	"github.com/shopspring/decimal"
)

// ParseDocument parses one raw custody document in either format, sniffing
// the root element. It returns the normalized filing, or an error meaning
// "skip this document".
func ParseDocument(data []byte) (*fundscope.Filing, error) {
	root, err := rootElement(data)
	if err != nil {
		return nil, err
	}
	switch root {
	case "posicao":
		return parseLegacy(data)
	case "arquivoposicao":
		return parseNested(data)
	default:
		return nil, fmt.Errorf("unknown custody document root <%s>", root)
	}
}

// rootElement returns the name of the first XML start element.
func rootElement(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("not an xml document: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}

// --- legacy flat format ---

type legacyDocument struct {
	XMLName xml.Name     `xml:"posicao"`
	Funds   []legacyFund `xml:"fundo"`
}

type legacyFund struct {
	CNPJ     string        `xml:"cnpj"`
	On       string        `xml:"dataposicao"`
	NetAsset string        `xml:"patliq"`
	Assets   []legacyAsset `xml:"ativo"`
}

type legacyAsset struct {
	Kind  string `xml:"tipo,attr"`
	Code  string `xml:"codigo"`
	Value string `xml:"valor"`
}

func parseLegacy(data []byte) (*fundscope.Filing, error) {
	var doc legacyDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed legacy custody document: %w", err)
	}
	if len(doc.Funds) == 0 {
		return nil, fmt.Errorf("legacy custody document has no <fundo>")
	}
	// One filing per document: the feed never batches several funds, a
	// second <fundo> is a malformed export we ignore.
	fund := doc.Funds[0]

	filing, err := newFiling(fund.CNPJ, fund.On, date.DateFormat, fund.NetAsset)
	if err != nil {
		return nil, err
	}
	for _, a := range fund.Assets {
		value, err := decimal.NewFromString(strings.TrimSpace(a.Value))
		if err != nil {
			return nil, fmt.Errorf("invalid value %q for asset %q: %w", a.Value, a.Code, err)
		}
		filing.Add(assetID(a.Kind, a.Code), value)
	}
	return filing, nil
}

// assetID tags a legacy asset code with the prefix of its kind, so the
// sector classifier can pattern-match its fallback categories.
func assetID(kind, code string) string {
	switch kind {
	case "cota":
		id, err := fundscope.NormalizeFundID(code)
		if err != nil {
			return fundscope.AssetFundPrefix + code
		}
		return fundscope.AssetFundPrefix + string(id)
	case "titpublico":
		return fundscope.AssetGovBondPrefix + code
	case "caixa":
		return fundscope.AssetCash
	case "derivativo":
		return fundscope.AssetDerivativePrefix + code
	default:
		return code
	}
}

// --- nested format ---

type nestedDocument struct {
	XMLName xml.Name     `xml:"arquivoposicao"`
	Version string       `xml:"versao,attr"`
	Funds   []nestedFund `xml:"fundo"`
}

type nestedFund struct {
	Header      nestedHeader  `xml:"header"`
	Equities    []nestedAsset `xml:"acoes"`
	FundShares  []nestedShare `xml:"cotas"`
	GovBonds    []nestedAsset `xml:"titpublico"`
	Cash        []nestedCash  `xml:"caixa"`
	Derivatives []nestedDeriv `xml:"derivativos"`
}

type nestedHeader struct {
	CNPJ     string `xml:"cnpj"`
	On       string `xml:"dtposicao"`
	NetAsset string `xml:"patliq"`
}

type nestedAsset struct {
	Code  string `xml:"codativo"`
	Value string `xml:"valorfindisp"`
}

type nestedShare struct {
	FundCNPJ string `xml:"cnpjfundo"`
	Value    string `xml:"valorfindisp"`
}

type nestedCash struct {
	Balance string `xml:"saldo"`
}

type nestedDeriv struct {
	Code  string `xml:"codderiv"`
	Value string `xml:"valorfindisp"`
}

// nestedDateFormat is the compact date spelling of the nested format header.
const nestedDateFormat = "20060102"

func parseNested(data []byte) (*fundscope.Filing, error) {
	var doc nestedDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed custody document: %w", err)
	}
	if len(doc.Funds) == 0 {
		return nil, fmt.Errorf("custody document has no <fundo>")
	}
	fund := doc.Funds[0]

	filing, err := newFiling(fund.Header.CNPJ, fund.Header.On, nestedDateFormat, fund.Header.NetAsset)
	if err != nil {
		return nil, err
	}

	add := func(id, raw string) error {
		value, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid value %q for asset %q: %w", raw, id, err)
		}
		filing.Add(id, value)
		return nil
	}

	for _, a := range fund.Equities {
		if err := add(a.Code, a.Value); err != nil {
			return nil, err
		}
	}
	for _, s := range fund.FundShares {
		if err := add(assetID("cota", s.FundCNPJ), s.Value); err != nil {
			return nil, err
		}
	}
	for _, a := range fund.GovBonds {
		if err := add(fundscope.AssetGovBondPrefix+a.Code, a.Value); err != nil {
			return nil, err
		}
	}
	// Cash balances collapse into the single CASH bucket.
	cash := decimal.Zero
	for _, c := range fund.Cash {
		balance, err := decimal.NewFromString(strings.TrimSpace(c.Balance))
		if err != nil {
			return nil, fmt.Errorf("invalid cash balance %q: %w", c.Balance, err)
		}
		cash = cash.Add(balance)
	}
	filing.Add(fundscope.AssetCash, cash)
	for _, d := range fund.Derivatives {
		if err := add(fundscope.AssetDerivativePrefix+d.Code, d.Value); err != nil {
			return nil, err
		}
	}
	return filing, nil
}

// newFiling validates the mandatory header fields shared by both formats.
func newFiling(cnpj, on, dateFormat, netAsset string) (*fundscope.Filing, error) {
	fund, err := fundscope.NormalizeFundID(cnpj)
	if err != nil {
		return nil, fmt.Errorf("missing or invalid fund identifier: %w", err)
	}
	when, err := time.Parse(dateFormat, strings.TrimSpace(on))
	if err != nil {
		return nil, fmt.Errorf("missing or invalid position date %q: %w", on, err)
	}
	// A zero or negative net asset is legal: weights degrade to 0 downstream.
	tna, err := decimal.NewFromString(strings.TrimSpace(netAsset))
	if err != nil {
		return nil, fmt.Errorf("missing or invalid net asset value %q: %w", netAsset, err)
	}
	return fundscope.NewFiling(fund, date.New(when.Date()), tna, fundscope.SourceCustody), nil
}
