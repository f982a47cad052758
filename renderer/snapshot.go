package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/fundscope"
)

// SnapshotMarkdown renders a fund's current portfolio: its positions at the
// most recent date, sorted descending by weight. fund may be nil when the
// identifier is not in the registry.
func SnapshotMarkdown(fund *fundscope.Fund, id fundscope.FundID, rows []fundscope.Position) string {
	var b strings.Builder

	name := string(id)
	if fund != nil && fund.Name != "" {
		name = fund.Name
	}
	fmt.Fprintf(&b, "# Portfolio of %s\n\n", name)
	if len(rows) == 0 {
		// An explicit empty state: absence of data must never look like a
		// valid empty portfolio.
		fmt.Fprintf(&b, "No position data for fund %s.\n", id)
		return b.String()
	}
	fmt.Fprintf(&b, "As of %s, net assets %s, source %s\n\n",
		rows[0].On, formatMoney(rows[0].TotalNetAssets), rows[0].Source)

	fmt.Fprintln(&b, "| Asset | Sector | Value | Weight |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|")
	var total float64
	for _, p := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			p.AssetID, p.Sector, formatMoney(p.Value), formatPct(p.WeightPct))
		total += p.WeightPct
	}
	fmt.Fprintf(&b, "| **Total** | | | **%s** |\n", formatPct(total))
	return b.String()
}

// RegistryMarkdown renders the fund registry.
func RegistryMarkdown(reg *fundscope.Registry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Funds\n\n")
	fmt.Fprintln(&b, "| Fund ID | Name | Category | Tier | Master |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|:---|")
	for _, f := range reg.Funds() {
		master := string(f.Master)
		if master == "" {
			master = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", f.ID, f.Name, f.Category, f.Tier, master)
	}
	return b.String()
}
