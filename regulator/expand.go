package regulator

import (
	"log"
	"sort"
	"strings"

	"github.com/etnz/fundscope"
)

// ExpandFundOfFunds looks up, on demand, the holdings of funds that appear
// only as fund-of-fund positions of other filings. The returned list is the
// input plus the fetched filings.
//
// Expansion is single-level: the holdings fetched here are not themselves
// scanned for further fund-of-fund references. Multi-level chasing would
// recurse into the whole industry graph for little analytical gain.
func (c *Client) ExpandFundOfFunds(filings []*fundscope.Filing) []*fundscope.Filing {
	covered := make(map[fundscope.FundID]bool, len(filings))
	for _, f := range filings {
		covered[f.Fund] = true
	}

	referenced := make(map[fundscope.FundID]bool)
	for _, f := range filings {
		for _, p := range f.Positions {
			target, ok := strings.CutPrefix(p.AssetID, fundscope.AssetFundPrefix)
			if !ok {
				continue
			}
			id, err := fundscope.NormalizeFundID(target)
			if err != nil {
				continue
			}
			if !covered[id] {
				referenced[id] = true
			}
		}
	}

	missing := make([]fundscope.FundID, 0, len(referenced))
	for id := range referenced {
		missing = append(missing, id)
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })

	out := filings
	for _, id := range missing {
		fetched, err := c.FetchFund(id)
		if err != nil {
			// Source-unavailable: the referencing position still stands,
			// only the look-through detail is missing.
			log.Printf("skip on-demand lookup for fund %s: %v", id, err)
			continue
		}
		out = append(out, fetched...)
	}
	return out
}
