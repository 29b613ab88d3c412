// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package judge

import (
	"bytes"
	"testing"

	"github.com/ismaelsadeeq/bitcoind-long-term-estimates-analysis/fees"
)

func TestWriteReport(t *testing.T) {
	blocks := map[int64]*fees.BlockStat{
		101:  {ConfHeight: 101, P5: 5, P50: 20},
		102:  {ConfHeight: 102, P5: 12, P50: 20},
		103:  {ConfHeight: 103, P5: 2, P50: 4},
		104:  {ConfHeight: 104, P5: 1, P50: 3},
		2000: {ConfHeight: 2000, P5: 1, P50: 2},
	}
	estimates := []*fees.Estimate{
		// Window {101}: conservative within range, economic under p_5 at 101
		// but still within range.
		{ConfTarget: 2, BlockHeight: 100, ConservativeFeeRate: 10, EconomicFeeRate: 1},
		// Window {101, 102}: conservative overpaid at both, economic within
		// range with an underpaid observation at 102.
		{ConfTarget: 3, BlockHeight: 100, ConservativeFeeRate: 25, EconomicFeeRate: 10},
		// Window {501}: no such block, underpaid in both modes.
		{ConfTarget: 2, BlockHeight: 500, ConservativeFeeRate: 7, EconomicFeeRate: 3},
	}

	maxHeight, found := fees.MaxBlockHeight(blocks)
	if !found {
		t.Fatal("no max height")
	}
	judged := Trim(estimates, maxHeight)
	if len(judged) != 3 {
		t.Fatalf("trim removed judgeable estimates, kept %d", len(judged))
	}

	conservative, economic := Run(judged, blocks)
	var buf bytes.Buffer
	WriteReport(&buf, judged, conservative, economic)

	// 3 estimates, fixed divisor 12: each count is worth 400%.
	want := `Total of 3 estimates were made from Block 99 to Block 499
---------------------------------------------------------
Conf target: 2
1 estimates underpaid (400.00% of the total estimates) in conservative mode
0 estimates overpaid (0.00% of the total estimates) in conservative mode
1 estimates within the range (400.00% of the total estimates) in conservative mode
---------------------------------------------------------
Conf target: 3
0 estimates underpaid (0.00% of the total estimates) in conservative mode
1 estimates overpaid (400.00% of the total estimates) in conservative mode
0 estimates within the range (0.00% of the total estimates) in conservative mode
---------------------------------------------------------
Conf target: 2
1 estimates underpaid (400.00% of the total estimates) in economic mode
0 estimates overpaid (0.00% of the total estimates) in economic mode
1 estimates within the range (400.00% of the total estimates) in economic mode
---------------------------------------------------------
Conf target: 3
0 estimates underpaid (0.00% of the total estimates) in economic mode
0 estimates overpaid (0.00% of the total estimates) in economic mode
1 estimates within the range (400.00% of the total estimates) in economic mode
---------------------------------------------------------
`
	if got := buf.String(); got != want {
		t.Fatalf("report mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
