package fundscope

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// registryHeader is the column contract of the fund registry artifact.
var registryHeader = []string{"fund_id", "fund_id_of_master", "name", "category", "tier"}

// RegistryFile is the file name of the fund registry artifact.
const RegistryFile = "registry.csv"

// EncodeRegistry writes the registry as a CSV stream, sorted by identifier.
func EncodeRegistry(w io.Writer, r *Registry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(registryHeader); err != nil {
		return fmt.Errorf("persist error: cannot write registry header: %w", err)
	}
	for _, f := range r.Funds() {
		record := []string{string(f.ID), string(f.Master), f.Name, f.Category, f.Tier}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("persist error: cannot write registry row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeRegistry reads a registry from a CSV stream. Fund identifiers are
// normalized on the way in; a malformed identifier fails the whole load,
// since a half-read registry would silently break feeder substitution.
func DecodeRegistry(r io.Reader) (*Registry, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("load error: cannot read registry header: %w", err)
	}
	if len(header) != len(registryHeader) {
		return nil, fmt.Errorf("load error: registry has %d columns, want %d", len(header), len(registryHeader))
	}

	reg := NewRegistry()
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load error: registry line %d: %w", line, err)
		}
		id, err := NormalizeFundID(record[0])
		if err != nil {
			return nil, fmt.Errorf("load error: registry line %d: %w", line, err)
		}
		var master FundID
		if record[1] != "" {
			master, err = NormalizeFundID(record[1])
			if err != nil {
				return nil, fmt.Errorf("load error: registry line %d: %w", line, err)
			}
		}
		fund := &Fund{ID: id, Master: master, Name: record[2], Category: record[3], Tier: record[4]}
		if err := reg.Add(fund); err != nil {
			return nil, fmt.Errorf("load error: registry line %d: %w", line, err)
		}
	}
	return reg, nil
}

// SaveRegistry atomically persists the registry under dir.
func SaveRegistry(dir string, r *Registry) error {
	return atomicWrite(filepath.Join(dir, RegistryFile), func(w io.Writer) error {
		return EncodeRegistry(w, r)
	})
}

// LoadRegistry reads the registry persisted under dir.
func LoadRegistry(dir string) (*Registry, error) {
	filename := filepath.Join(dir, RegistryFile)
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("load error: cannot open registry %q: %w", filename, err)
	}
	defer f.Close()
	return DecodeRegistry(f)
}
