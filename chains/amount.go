// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package chains

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
)

const (
	satoshiPerBTC  = 1e8
	lamportsPerSOL = 1e9
)

// BTCToSatoshi converts a decimal BTC amount to satoshi, truncating
// any fraction below one satoshi.
func BTCToSatoshi(amount string) (uint64, error) {
	return toBaseUnits(amount, satoshiPerBTC)
}

// SOLToLamports converts a decimal SOL amount to lamports, truncating
// any fraction below one lamport.
func SOLToLamports(amount string) (uint64, error) {
	return toBaseUnits(amount, lamportsPerSOL)
}

// toBaseUnits parses amount as a float64 and scales it. Wallets in the field
// compute these values in floating point, so the same rounding is kept here:
// "0.29" BTC becomes 28999999 satoshi.
func toBaseUnits(amount string, scale float64) (uint64, error) {
	if isHexFloat(amount) {
		return 0, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, amount)
	}
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, amount)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidAmount, amount)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, amount)
	}
	units := math.Trunc(v * scale)
	if units >= math.MaxUint64 {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, amount)
	}
	return uint64(units), nil
}

// isHexFloat reports whether s uses the 0x floating point syntax, with or
// without a sign.
func isHexFloat(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// parseUint256 parses an unsigned decimal string into a 256-bit integer.
// Only digits are accepted, so a sign is rejected.
func parseUint256(field, s string) (*uint256.Int, error) {
	if strings.HasPrefix(s, "+") {
		return nil, fmt.Errorf("%w: %s %q: unexpected sign", ErrInvalidNumericField, field, s)
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q: %v", ErrInvalidNumericField, field, s, err)
	}
	return v, nil
}

// parseUint64 parses an unsigned decimal string that must fit 64 bits.
func parseUint64(field, s string) (uint64, error) {
	v, err := parseUint256(field, s)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: %s %q exceeds 64 bits", ErrInvalidNumericField, field, s)
	}
	return v.Uint64(), nil
}
