// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

// Package fees defines the fee estimate and block percentile records scraped
// from a long-running bitcoind node and loads them from their JSON dumps.
package fees

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Estimate is a single estimatesmartfee result logged at BlockHeight,
// predicting that the recorded fee rates would confirm a transaction within
// ConfTarget further blocks. Fee rates are whole sats/byte after conversion
// from the sats/kB values on the wire.
type Estimate struct {
	ConfTarget          int64
	BlockHeight         int64
	ConservativeFeeRate int64
	EconomicFeeRate     int64
}

// BlockStat holds observed fee-rate percentiles, in sats/byte, for the
// transactions confirmed in the block at ConfHeight.
type BlockStat struct {
	ConfHeight int64
	P5         int64
	P50        int64
}

// number is a JSON field that may be encoded as a number or as a numeric
// string. The scrape files are inconsistent about which, so both decode.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = number(f)
	return nil
}

// Required fields are pointers so that absent keys are distinguishable from
// zero values.
type estimateRecord struct {
	ConfTarget          *number `json:"conf_target"`
	BlockHeight         *number `json:"block_height"`
	ConservativeFeeRate *number `json:"conservative_fee_rate"`
	EconomicFeeRate     *number `json:"economic_fee_rate"`
}

type blockRecord struct {
	BlockHeight *number `json:"block_height"`
	P5          *number `json:"p_5"`
	P50         *number `json:"p_50"`
}

// Load reads the fee estimates and block percentiles from the named files.
// Either path may be empty, yielding an empty collection for that source.
// Load failures are not fatal. A source that cannot be read or parsed is
// logged and treated as empty, and the caller proceeds with whatever data is
// available.
func Load(feesPath, blocksPath string, log Logger) ([]*Estimate, map[int64]*BlockStat) {
	return LoadEstimates(feesPath, log), LoadBlocks(blocksPath, log)
}

// LoadEstimates reads the ordered fee estimate records from the JSON file at
// path. The returned slice preserves file order, which follows increasing
// block height. A single malformed record invalidates the whole file, since a
// partial estimate series would skew the judged totals.
func LoadEstimates(path string, log Logger) []*Estimate {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("Error reading estimates file %s: %v", path, err)
		return nil
	}
	estimates, err := parseEstimates(b)
	if err != nil {
		log.Errorf("Error processing estimates file %s: %v", path, err)
		return nil
	}
	return estimates
}

func parseEstimates(b []byte) ([]*Estimate, error) {
	var records []*estimateRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, err
	}
	estimates := make([]*Estimate, 0, len(records))
	for i, rec := range records {
		if rec.ConfTarget == nil || rec.BlockHeight == nil ||
			rec.ConservativeFeeRate == nil || rec.EconomicFeeRate == nil {

			return nil, fmt.Errorf("estimate record %d is missing required fields", i)
		}
		estimates = append(estimates, &Estimate{
			ConfTarget:          int64(*rec.ConfTarget),
			BlockHeight:         int64(*rec.BlockHeight),
			ConservativeFeeRate: RatePerKBToPerByte(float64(*rec.ConservativeFeeRate)),
			EconomicFeeRate:     RatePerKBToPerByte(float64(*rec.EconomicFeeRate)),
		})
	}
	return estimates, nil
}

// LoadBlocks reads the per-block percentile records from the JSON file at
// path into a map keyed by block height. Unlike estimates, a malformed block
// record is logged and skipped, and loading continues with the remaining
// records.
func LoadBlocks(path string, log Logger) map[int64]*BlockStat {
	blocks := make(map[int64]*BlockStat)
	if path == "" {
		return blocks
	}
	b, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("Error reading blocks file %s: %v", path, err)
		return blocks
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		log.Errorf("Error processing blocks file %s: %v", path, err)
		return blocks
	}
	for i, raw := range raws {
		var rec blockRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			log.Errorf("Error processing block record %d: %v", i, err)
			continue
		}
		if rec.BlockHeight == nil || rec.P5 == nil || rec.P50 == nil {
			log.Errorf("Error processing block record %d: missing required fields", i)
			continue
		}
		height := int64(*rec.BlockHeight)
		blocks[height] = &BlockStat{
			ConfHeight: height,
			P5:         RatePerKBToPerByte(float64(*rec.P5)),
			P50:        RatePerKBToPerByte(float64(*rec.P50)),
		}
	}
	return blocks
}

// MaxBlockHeight returns the highest block height present in blocks, and
// false when the map is empty. Judging cannot proceed without at least one
// block record, so callers must treat the false case as fatal.
func MaxBlockHeight(blocks map[int64]*BlockStat) (int64, bool) {
	if len(blocks) == 0 {
		return 0, false
	}
	var max int64
	for height := range blocks {
		if height > max {
			max = height
		}
	}
	return max, true
}
