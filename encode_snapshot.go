package fundscope

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/etnz/fundscope/date"
	"github.com/shopspring/decimal"
)

// This file persists the consolidated snapshot artifact. The column set is
// the one bit-exact contract worth preserving: downstream consumers key on
// these names and this order. Rows are written in (fund, date, asset) order
// so that repeated runs over unchanged inputs produce bit-identical files.

// snapshotHeader is the exact column contract of the snapshot artifact.
var snapshotHeader = []string{
	"fund_id", "date", "asset_id", "value",
	"total_net_assets", "weight_pct", "sector", "source_tag",
}

// SnapshotFile is the file name of the consolidated snapshot artifact.
const SnapshotFile = "consolidated.csv"

// MetaFile is the file name of the build metadata artifact.
const MetaFile = "meta.json"

// EncodeSnapshot writes the consolidated table as a CSV stream.
func EncodeSnapshot(w io.Writer, c *Consolidated) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(snapshotHeader); err != nil {
		return fmt.Errorf("persist error: cannot write snapshot header: %w", err)
	}
	for _, p := range c.rows {
		record := []string{
			string(p.Fund),
			p.On.String(),
			p.AssetID,
			p.Value.String(),
			p.TotalNetAssets.String(),
			strconv.FormatFloat(p.WeightPct, 'f', -1, 64),
			p.Sector,
			p.Source.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("persist error: cannot write snapshot row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeSnapshot reads a consolidated table from a CSV stream, verifying the
// column contract.
func DecodeSnapshot(r io.Reader) (*Consolidated, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("load error: cannot read snapshot header: %w", err)
	}
	if len(header) != len(snapshotHeader) {
		return nil, fmt.Errorf("load error: snapshot has %d columns, want %d", len(header), len(snapshotHeader))
	}
	for i, name := range snapshotHeader {
		if header[i] != name {
			return nil, fmt.Errorf("load error: snapshot column %d is %q, want %q", i, header[i], name)
		}
	}

	var rows []Position
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load error: snapshot line %d: %w", line, err)
		}
		p, err := decodeSnapshotRecord(record)
		if err != nil {
			return nil, fmt.Errorf("load error: snapshot line %d: %w", line, err)
		}
		rows = append(rows, p)
	}
	return newConsolidated(rows), nil
}

func decodeSnapshotRecord(record []string) (Position, error) {
	on, err := date.Parse(record[1])
	if err != nil {
		return Position{}, err
	}
	value, err := decimal.NewFromString(record[3])
	if err != nil {
		return Position{}, fmt.Errorf("invalid value %q: %w", record[3], err)
	}
	tna, err := decimal.NewFromString(record[4])
	if err != nil {
		return Position{}, fmt.Errorf("invalid total net assets %q: %w", record[4], err)
	}
	weight, err := strconv.ParseFloat(record[5], 64)
	if err != nil {
		return Position{}, fmt.Errorf("invalid weight %q: %w", record[5], err)
	}
	source, err := ParseSourceTag(record[7])
	if err != nil {
		return Position{}, err
	}
	return Position{
		Fund:           FundID(record[0]),
		On:             on,
		AssetID:        record[2],
		Value:          value,
		TotalNetAssets: tna,
		WeightPct:      weight,
		Sector:         record[6],
		Source:         source,
	}, nil
}

// SaveSnapshot atomically persists the consolidated table under dir: the
// file is fully written to a temporary name first, then renamed over the
// previous artifact so readers never observe a half-written snapshot.
func SaveSnapshot(dir string, c *Consolidated) error {
	return atomicWrite(filepath.Join(dir, SnapshotFile), func(w io.Writer) error {
		return EncodeSnapshot(w, c)
	})
}

// LoadSnapshot reads the consolidated table persisted under dir.
func LoadSnapshot(dir string) (*Consolidated, error) {
	filename := filepath.Join(dir, SnapshotFile)
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("load error: cannot open snapshot %q: %w", filename, err)
	}
	defer f.Close()
	return DecodeSnapshot(f)
}

// BuildMeta describes one pipeline run. It is informational: consumers key
// on the snapshot itself, not on the meta.
type BuildMeta struct {
	RunID   string    `json:"run_id"`
	BuiltAt time.Time `json:"built_at"`
	Mode    string    `json:"mode"`
	Rows    int       `json:"rows"`
}

// SaveMeta persists the build metadata under dir.
func SaveMeta(dir string, meta BuildMeta) error {
	return atomicWrite(filepath.Join(dir, MetaFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
}

// LoadMeta reads the build metadata persisted under dir.
func LoadMeta(dir string) (BuildMeta, error) {
	filename := filepath.Join(dir, MetaFile)
	data, err := os.ReadFile(filename)
	if err != nil {
		return BuildMeta{}, fmt.Errorf("load error: cannot open meta %q: %w", filename, err)
	}
	var meta BuildMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return BuildMeta{}, fmt.Errorf("load error: cannot parse meta %q: %w", filename, err)
	}
	return meta, nil
}

// atomicWrite writes a file through a temporary sibling and a rename.
func atomicWrite(filename string, write func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("persist error: cannot create folder %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp-*")
	if err != nil {
		return fmt.Errorf("persist error: cannot create temp file in %q: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("persist error: cannot close %q: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("persist error: cannot replace %q: %w", filename, err)
	}
	log.Printf("write-artifact name=%q", filename)
	return nil
}
