// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package fees

// RatePerKBToPerByte converts a fee rate expressed in sats/kB to a whole
// sats/byte rate. The fractional remainder is truncated, not rounded, so
// rates below 1000 sats/kB convert to zero. Negative inputs truncate toward
// zero as well.
func RatePerKBToPerByte(ratePerKB float64) int64 {
	return int64(ratePerKB / 1000)
}
