// Package fundscope reconciles fund-holding disclosures from heterogeneous
// sources (custody XML feeds, regulator bulk CSV dumps, vendor PDF statements)
// into a single consolidated table of per-asset portfolio weights per fund,
// and computes comparative metrics (composition history, pairwise overlap)
// on top of it.
//
// The consolidated table is produced by a batch build and is immutable per
// run: queries are read-only and a new run replaces the artifact wholesale.
package fundscope
