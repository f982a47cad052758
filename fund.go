package fundscope

import (
	"fmt"
	"sort"
	"strings"
)

// FundID is the normalized 14-digit national identifier of a fund.
type FundID string

// NormalizeFundID turns a raw fund identifier (with or without punctuation,
// with or without leading zeros) into its canonical 14-digit form.
func NormalizeFundID(raw string) (FundID, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" || len(digits) > 14 {
		return "", fmt.Errorf("invalid fund identifier %q: want up to 14 digits", raw)
	}
	return FundID(strings.Repeat("0", 14-len(digits)) + digits), nil
}

// MustFundID is like NormalizeFundID but panics on error. For tests and constants.
func MustFundID(raw string) FundID {
	id, err := NormalizeFundID(raw)
	if err != nil {
		panic(err.Error())
	}
	return id
}

// SourceTag identifies the document source that produced a filing or a row.
type SourceTag int

const (
	// SourceCustody is the direct custody XML feed.
	SourceCustody SourceTag = iota
	// SourceRegulator is the regulator's monthly bulk dump.
	SourceRegulator
	// SourceRegulatorOnDemand is a per-fund regulator lookup outside the bulk dump.
	SourceRegulatorOnDemand
)

// String returns the artifact representation of the tag. These strings are
// part of the snapshot schema and must not change.
func (s SourceTag) String() string {
	switch s {
	case SourceCustody:
		return "XML"
	case SourceRegulator:
		return "REGULATOR"
	case SourceRegulatorOnDemand:
		return "REGULATOR_ON_DEMAND"
	default:
		return fmt.Sprintf("SourceTag(%d)", int(s))
	}
}

// ParseSourceTag parses the artifact representation of a source tag.
func ParseSourceTag(str string) (SourceTag, error) {
	switch str {
	case "XML":
		return SourceCustody, nil
	case "REGULATOR":
		return SourceRegulator, nil
	case "REGULATOR_ON_DEMAND":
		return SourceRegulatorOnDemand, nil
	default:
		return 0, fmt.Errorf("unknown source tag %q", str)
	}
}

// isCustody reports whether the tag belongs to the custody feed side.
// Both regulator tags belong to the regulator side for precedence purposes.
func (s SourceTag) isCustody() bool { return s == SourceCustody }

// Fund is one entry of the fund registry.
type Fund struct {
	ID       FundID
	Master   FundID // optional: set when the fund is a feeder into a master vehicle
	Name     string
	Category string
	Tier     string
}

// IsFeeder reports whether the fund invests through a master vehicle.
func (f *Fund) IsFeeder() bool { return f.Master != "" }

// Registry is the set of known funds, indexed by identifier.
// A master may have multiple feeders (one-to-many).
type Registry struct {
	funds []*Fund
	index map[FundID]*Fund
}

// NewRegistry returns a new empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[FundID]*Fund)}
}

// Add registers a fund. Adding an already registered identifier is an error.
func (r *Registry) Add(f *Fund) error {
	if _, ok := r.index[f.ID]; ok {
		return fmt.Errorf("fund %s is already registered", f.ID)
	}
	r.funds = append(r.funds, f)
	r.index[f.ID] = f
	return nil
}

// Get returns the registered fund for that identifier.
func (r *Registry) Get(id FundID) (*Fund, bool) {
	f, ok := r.index[id]
	return f, ok
}

// Len returns the number of registered funds.
func (r *Registry) Len() int { return len(r.funds) }

// Funds returns all registered funds sorted by identifier.
func (r *Registry) Funds() []*Fund {
	list := make([]*Fund, len(r.funds))
	copy(list, r.funds)
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Feeders returns all feeder funds sorted by identifier.
func (r *Registry) Feeders() []*Fund {
	var list []*Fund
	for _, f := range r.Funds() {
		if f.IsFeeder() {
			list = append(list, f)
		}
	}
	return list
}
