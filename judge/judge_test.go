// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package judge

import (
	"testing"

	"github.com/ismaelsadeeq/bitcoind-long-term-estimates-analysis/fees"
)

func TestTrim(t *testing.T) {
	estimates := func(heights ...int64) []*fees.Estimate {
		ests := make([]*fees.Estimate, 0, len(heights))
		for _, height := range heights {
			ests = append(ests, &fees.Estimate{BlockHeight: height})
		}
		return ests
	}
	checkTrim := func(maxHeight int64, ests []*fees.Estimate, wantLen int) {
		t.Helper()
		if kept := Trim(ests, maxHeight); len(kept) != wantLen {
			t.Fatalf("Trim to max height %d kept %d estimates, want %d", maxHeight, len(kept), wantLen)
		}
	}

	// With max height 2000, estimates made after block 992 are too recent.
	checkTrim(2000, estimates(500, 900, 992), 3)
	checkTrim(2000, estimates(500, 900, 993), 2)
	checkTrim(2000, estimates(993, 994, 995), 0)
	checkTrim(2000, nil, 0)
	// The trim only pops from the tail, so an out-of-order early record is
	// never revisited.
	checkTrim(2000, estimates(500, 992, 900), 3)
}

func TestRunClassification(t *testing.T) {
	blocks := map[int64]*fees.BlockStat{
		101: {ConfHeight: 101, P5: 5, P50: 20},
		102: {ConfHeight: 102, P5: 12, P50: 20},
		103: {ConfHeight: 103, P5: 2, P50: 4},
	}

	// classifyOne runs a single estimate through and reports which
	// conservative category it landed in.
	classifyOne := func(confTarget, rate int64) string {
		t.Helper()
		est := &fees.Estimate{
			ConfTarget:          confTarget,
			BlockHeight:         100,
			ConservativeFeeRate: rate,
			EconomicFeeRate:     rate,
		}
		conservative, economic := Run([]*fees.Estimate{est}, blocks)
		tally := conservative.Bucket(confTarget)
		if tally == nil {
			t.Fatalf("no bucket for conf target %d", confTarget)
		}
		if econTally := economic.Bucket(confTarget); *econTally != *tally {
			t.Fatalf("same rate judged differently per mode: %+v vs %+v", *tally, *econTally)
		}
		switch {
		case tally.Overpaid == 1:
			return "overpaid"
		case tally.WithinRange == 1:
			return "within the range"
		case tally.Underpaid == 1:
			return "underpaid"
		}
		t.Fatalf("estimate was not tallied: %+v", *tally)
		return ""
	}
	check := func(confTarget, rate int64, want string) {
		t.Helper()
		if got := classifyOne(confTarget, rate); got != want {
			t.Fatalf("conf target %d rate %d classified %q, want %q", confTarget, rate, got, want)
		}
	}

	// Window [101,102): rate 10 is neither under 5 nor over 20.
	check(2, 10, "within the range")
	// Window [101,103): rate 10 is under p_5 at 102 but never over p_50, and
	// the within-range observation at 101 outranks the underpaid flag.
	check(3, 10, "within the range")
	// Window [101,104): rate 10 is over p_50 at 103; overpaid outranks the
	// within-range observations from 101 and 102.
	check(4, 10, "overpaid")
	// Rate 1 is under p_5 everywhere, but every visited block also marks it
	// within range (not over p_50), so it still lands within the range.
	check(2, 1, "within the range")
	// A conf target of 1 scans no blocks at all: underpaid by default.
	check(1, 50, "underpaid")
	// The same rate over a populated window is anything but.
	check(2, 50, "overpaid")
	// A window whose heights are all unknown blocks is also underpaid.
	est := &fees.Estimate{ConfTarget: 3, BlockHeight: 500, ConservativeFeeRate: 50, EconomicFeeRate: 50}
	conservative, _ := Run([]*fees.Estimate{est}, blocks)
	if tally := conservative.Bucket(3); tally.Underpaid != 1 {
		t.Fatalf("estimate with no observable blocks not underpaid: %+v", *tally)
	}
}

func TestRunBuckets(t *testing.T) {
	blocks := map[int64]*fees.BlockStat{
		101: {ConfHeight: 101, P5: 5, P50: 20},
	}
	est := func(confTarget, rate int64) *fees.Estimate {
		return &fees.Estimate{
			ConfTarget:          confTarget,
			BlockHeight:         100,
			ConservativeFeeRate: rate,
			EconomicFeeRate:     rate,
		}
	}

	// 12 estimates total so that the fixed /12 normalization makes each
	// count worth exactly 100%.
	ests := []*fees.Estimate{
		est(2, 10), est(2, 10), est(2, 10), est(2, 25), est(2, 25), est(2, 10),
		est(5, 25), est(5, 25), est(5, 25), est(5, 25), est(5, 10), est(5, 10),
	}
	conservative, _ := Run(ests, blocks)

	targets := conservative.Targets()
	if len(targets) != 2 || targets[0] != 2 || targets[1] != 5 {
		t.Fatalf("bucket order = %v, want [2 5]", targets)
	}

	checkTally := func(target int64, within, over int, withinPct, overPct float64) {
		t.Helper()
		tally := conservative.Bucket(target)
		if tally.WithinRange != within || tally.Overpaid != over || tally.Underpaid != 0 {
			t.Fatalf("conf target %d tally = %+v", target, *tally)
		}
		if tally.WithinRangePct != withinPct || tally.OverpaidPct != overPct {
			t.Fatalf("conf target %d percentages = %+v", target, *tally)
		}
	}
	checkTally(2, 4, 2, 400, 200)
	checkTally(5, 2, 4, 200, 400)

	// The divisor stays 12 regardless of the real estimate count, so a
	// 6-count bucket out of 12 single-bucket estimates reads as 600%, and
	// percentages are not normalized to sum to 100.
	ests = ests[:0]
	for i := 0; i < 6; i++ {
		ests = append(ests, est(2, 10))
	}
	for i := 0; i < 6; i++ {
		ests = append(ests, est(2, 25))
	}
	conservative, _ = Run(ests, blocks)
	tally := conservative.Bucket(2)
	if tally.WithinRangePct != 600 || tally.OverpaidPct != 600 {
		t.Fatalf("fixed-divisor percentages = %+v, want 600%% each", *tally)
	}
}
