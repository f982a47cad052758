package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/fundscope"
	"github.com/etnz/fundscope/date"
)

// OverlapMatrixMarkdown renders the pairwise overlap of a fund list. The
// matrix is symmetric; the zero diagonal is rendered as "-" because a fund
// compared to itself is not meaningful.
func OverlapMatrixMarkdown(names []string, matrix [][]float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio overlap\n\n")

	fmt.Fprint(&b, "| |")
	for _, name := range names {
		fmt.Fprintf(&b, " %s |", name)
	}
	fmt.Fprintln(&b)
	fmt.Fprint(&b, "|:---|")
	for range names {
		fmt.Fprint(&b, "---:|")
	}
	fmt.Fprintln(&b)

	for i, name := range names {
		fmt.Fprintf(&b, "| **%s** |", name)
		for j := range names {
			if i == j {
				fmt.Fprint(&b, " - |")
			} else {
				fmt.Fprintf(&b, " %s |", formatPct(matrix[i][j]))
			}
		}
		fmt.Fprintln(&b)
	}
	return b.String()
}

// OverlapSeriesMarkdown renders the overlap history of a pair of funds over
// the dates both disclose.
func OverlapSeriesMarkdown(a, b string, series *date.History[float64]) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Overlap of %s and %s\n\n", a, b)
	if series.Len() == 0 {
		fmt.Fprintln(&sb, "No common disclosure dates.")
		return sb.String()
	}
	fmt.Fprintln(&sb, "| Date | Overlap |")
	fmt.Fprintln(&sb, "|:---|---:|")
	for on, v := range series.Values() {
		fmt.Fprintf(&sb, "| %s | %s |\n", on, formatPct(v))
	}
	return sb.String()
}

// CommonHoldingsMarkdown renders the assets present in every fund's current
// top holdings, with each fund's weight.
func CommonHoldingsMarkdown(funds []fundscope.FundID, names []string, holdings []fundscope.CommonHolding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Common top holdings\n\n")
	if len(holdings) == 0 {
		fmt.Fprintln(&b, "No holding is in every fund's current top positions.")
		return b.String()
	}

	fmt.Fprint(&b, "| Asset | Sector |")
	for _, name := range names {
		fmt.Fprintf(&b, " %s |", name)
	}
	fmt.Fprintln(&b)
	fmt.Fprint(&b, "|:---|:---|")
	for range names {
		fmt.Fprint(&b, "---:|")
	}
	fmt.Fprintln(&b)

	for _, h := range holdings {
		fmt.Fprintf(&b, "| %s | %s |", h.AssetID, h.Sector)
		for _, f := range funds {
			fmt.Fprintf(&b, " %s |", formatPct(h.Weights[f]))
		}
		fmt.Fprintln(&b)
	}
	return b.String()
}
