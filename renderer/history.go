package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/fundscope"
)

// PivotMarkdown renders a composition history: one row per date, one column
// per asset (or sector), plus a trailing total column. Zero-filled cells are
// rendered as "-" to keep wide tables readable.
func PivotMarkdown(title string, p *fundscope.Pivot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	days, keys := p.Dates(), p.Keys()
	if len(days) == 0 {
		fmt.Fprintf(&b, "No position data for fund %s.\n", p.Fund)
		return b.String()
	}

	fmt.Fprint(&b, "| Date |")
	for _, key := range keys {
		fmt.Fprintf(&b, " %s |", key)
	}
	fmt.Fprintln(&b, " Total |")
	fmt.Fprint(&b, "|:---|")
	for range keys {
		fmt.Fprint(&b, "---:|")
	}
	fmt.Fprintln(&b, "---:|")

	for i, on := range days {
		fmt.Fprintf(&b, "| %s |", on)
		var total float64
		for _, w := range p.Row(i) {
			if w == 0 {
				fmt.Fprint(&b, " - |")
			} else {
				fmt.Fprintf(&b, " %s |", formatPct(w))
			}
			total += w
		}
		fmt.Fprintf(&b, " %s |\n", formatPct(total))
	}
	return b.String()
}
