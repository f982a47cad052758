package fundscope

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sector labels produced by the classifier fallback rules.
const (
	SectorFunds       = "Funds"
	SectorGovBonds    = "Government Bonds"
	SectorCash        = "Cash"
	SectorDerivatives = "Derivatives"
	SectorOther       = "Other"
)

// Classifier maps a security identifier to a sector label.
//
// It first consults an exact lookup table (ticker -> sector), then falls back
// to pattern matching on the asset identifier prefixes that parsers preserve
// for non-equity asset kinds. Every asset maps to exactly one sector;
// unknown assets map to SectorOther.
type Classifier struct {
	table map[string]string
}

// NewClassifier returns a classifier over the given exact lookup table.
// A nil table is legal: only the pattern fallback applies.
func NewClassifier(table map[string]string) *Classifier {
	return &Classifier{table: table}
}

// SectorFile is the optional file name of the exact lookup table artifact.
const SectorFile = "sectors.csv"

// LoadSectorTable reads the optional exact lookup table persisted under dir:
// a two-column CSV of (asset_id, sector). A missing file yields a nil table,
// leaving only the pattern fallback.
func LoadSectorTable(dir string) (map[string]string, error) {
	filename := filepath.Join(dir, SectorFile)
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load error: cannot open sector table %q: %w", filename, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	table := make(map[string]string)
	for line := 1; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load error: sector table line %d: %w", line, err)
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("load error: sector table line %d: want 2 columns", line)
		}
		table[record[0]] = record[1]
	}
	return table, nil
}

// Sector returns the sector label of an asset identifier.
func (c *Classifier) Sector(assetID string) string {
	if c.table != nil {
		if sector, ok := c.table[assetID]; ok {
			return sector
		}
	}
	switch {
	case strings.HasPrefix(assetID, AssetFundPrefix):
		return SectorFunds
	case strings.HasPrefix(assetID, AssetGovBondPrefix):
		return SectorGovBonds
	case strings.HasPrefix(assetID, AssetDerivativePrefix):
		return SectorDerivatives
	case assetID == AssetCash:
		return SectorCash
	default:
		return SectorOther
	}
}
