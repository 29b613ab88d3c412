// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

// Package judge grades historical fee estimates against the percentile bands
// of the blocks that could have confirmed them, and tallies the outcomes per
// confirmation target.
package judge

import (
	"github.com/ismaelsadeeq/bitcoind-long-term-estimates-analysis/fees"
)

const (
	// judgeWindow is how far behind the newest known block an estimate must
	// be before its outcome is considered settled: one week of 10-minute
	// blocks. The window is flat, independent of each estimate's own conf
	// target.
	judgeWindow = 1008

	// targetBuckets is the number of confirmation-target buckets the
	// percentage normalization assumes. The divisor stays fixed even when
	// the data holds a different number of targets, so category percentages
	// are shares of an idealized per-bucket total and can exceed 100%.
	targetBuckets = 12
)

// Names of the two bitcoind estimation strategies as they appear in the
// report.
const (
	ModeConservative = "conservative"
	ModeEconomic     = "economic"
)

// Tally is the outcome count for a single confirmation-target bucket,
// together with each category's percentage of the normalized estimate total.
type Tally struct {
	Underpaid      int
	Overpaid       int
	WithinRange    int
	UnderpaidPct   float64
	OverpaidPct    float64
	WithinRangePct float64
}

// Results holds the per-conf-target tallies for one estimation mode. Buckets
// iterate in the order their conf target was first seen in the estimate
// sequence.
type Results struct {
	targets []int64
	buckets map[int64]*Tally
}

func newResults() *Results {
	return &Results{buckets: make(map[int64]*Tally)}
}

// Targets returns the conf target of every bucket in first-seen order.
func (r *Results) Targets() []int64 {
	return r.targets
}

// Bucket returns the tally for the given conf target, or nil if no estimate
// with that target was judged.
func (r *Results) Bucket(target int64) *Tally {
	return r.buckets[target]
}

// bucket fetches the tally for target, creating it zeroed on first use.
func (r *Results) bucket(target int64) *Tally {
	t, found := r.buckets[target]
	if !found {
		t = new(Tally)
		r.buckets[target] = t
		r.targets = append(r.targets, target)
	}
	return t
}

func (r *Results) percentages(total float64) {
	for _, t := range r.buckets {
		t.UnderpaidPct = float64(t.Underpaid) / total * 100
		t.OverpaidPct = float64(t.Overpaid) / total * 100
		t.WithinRangePct = float64(t.WithinRange) / total * 100
	}
}

// Trim drops estimates from the tail of the sequence whose confirmation
// outcome may not be fully observable yet, i.e. those made fewer than
// judgeWindow blocks before maxBlockHeight. Estimates are ordered by block
// height, so only the tail is ever affected.
func Trim(estimates []*fees.Estimate, maxBlockHeight int64) []*fees.Estimate {
	for len(estimates) > 0 && maxBlockHeight-judgeWindow < estimates[len(estimates)-1].BlockHeight {
		estimates = estimates[:len(estimates)-1]
	}
	return estimates
}

// outcomeFlags accumulates the per-block observations for one estimate and
// one mode across its confirmation window.
type outcomeFlags struct {
	underpaid   bool
	overpaid    bool
	withinRange bool
}

// observe applies the percentile checks for one block of the window. A block
// marks the rate either overpaid or within range, never both, while the
// underpaid check runs independently and can coexist with either.
func (f *outcomeFlags) observe(rate int64, blk *fees.BlockStat) {
	if rate < blk.P5 {
		f.underpaid = true
	}
	if rate > blk.P50 {
		f.overpaid = true
	} else {
		f.withinRange = true
	}
}

// record resolves the window's flags into exactly one bucket category.
// Overpaid anywhere in the window wins, then within range. An estimate counts
// as underpaid only when it never reached either of the other two, which
// includes windows with no known blocks at all.
func (f *outcomeFlags) record(t *Tally) {
	switch {
	case f.overpaid:
		t.Overpaid++
	case f.withinRange:
		t.WithinRange++
	default:
		t.Underpaid++
	}
}

// Run judges every estimate against the blocks in its confirmation window,
// scanning heights in [BlockHeight+1, BlockHeight+ConfTarget). Heights
// missing from the block map are skipped. The conservative and economic rates
// are judged independently and tallied into separate Results.
func Run(estimates []*fees.Estimate, blocks map[int64]*fees.BlockStat) (conservative, economic *Results) {
	conservative, economic = newResults(), newResults()
	for _, est := range estimates {
		var consFlags, econFlags outcomeFlags
		for height := est.BlockHeight + 1; height < est.BlockHeight+est.ConfTarget; height++ {
			blk, found := blocks[height]
			if !found {
				continue
			}
			consFlags.observe(est.ConservativeFeeRate, blk)
			econFlags.observe(est.EconomicFeeRate, blk)
		}
		consFlags.record(conservative.bucket(est.ConfTarget))
		econFlags.record(economic.bucket(est.ConfTarget))
	}

	total := float64(len(estimates)) / targetBuckets
	conservative.percentages(total)
	economic.percentages(total)
	return conservative, economic
}
