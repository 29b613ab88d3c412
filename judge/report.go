// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package judge

import (
	"fmt"
	"io"

	"github.com/ismaelsadeeq/bitcoind-long-term-estimates-analysis/fees"
)

const separator = "---------------------------------------------------------"

// categories in report order.
var categories = []struct {
	name  string
	count func(*Tally) int
	pct   func(*Tally) float64
}{
	{"underpaid", func(t *Tally) int { return t.Underpaid }, func(t *Tally) float64 { return t.UnderpaidPct }},
	{"overpaid", func(t *Tally) int { return t.Overpaid }, func(t *Tally) float64 { return t.OverpaidPct }},
	{"within the range", func(t *Tally) int { return t.WithinRange }, func(t *Tally) float64 { return t.WithinRangePct }},
}

// WriteSummary writes the per-conf-target breakdown for one estimation mode,
// one separated section per bucket in first-seen order.
func (r *Results) WriteSummary(w io.Writer, mode string) {
	for _, target := range r.targets {
		t := r.buckets[target]
		fmt.Fprintf(w, "Conf target: %d\n", target)
		for _, cat := range categories {
			fmt.Fprintf(w, "%d estimates %s (%.2f%% of the total estimates) in %s mode\n",
				cat.count(t), cat.name, cat.pct(t), mode)
		}
		fmt.Fprintln(w, separator)
	}
}

// WriteReport renders the complete report: a header naming the judged block
// range, then the conservative summary followed by the economic one. The
// estimates slice must be the trimmed, non-empty sequence that produced the
// Results. Reported block numbers are one less than the stored heights, which
// record the block after the one each estimate was actually made at.
func WriteReport(w io.Writer, estimates []*fees.Estimate, conservative, economic *Results) {
	startBlock := estimates[0].BlockHeight - 1
	endBlock := estimates[len(estimates)-1].BlockHeight - 1
	fmt.Fprintf(w, "Total of %d estimates were made from Block %d to Block %d\n",
		len(estimates), startBlock, endBlock)
	fmt.Fprintln(w, separator)
	conservative.WriteSummary(w, ModeConservative)
	economic.WriteSummary(w, ModeEconomic)
}
