package common

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	NativeDecimals = 18 // MON/ETH have 18 decimals (wei)
)

var (
	ErrEmptyAmount        = errors.New("empty amount")
	ErrNegativeAmount     = errors.New("negative amount")
	ErrMultiplePoints     = errors.New("multiple decimal points")
	ErrNonDigit           = errors.New("non-digit character")
	ErrTooManyFractionals = errors.New("too many fractional digits")
)

// ParseUnits converts a decimal string to an integer amount in the smallest unit
// without float precision loss.
// Example: ParseUnits("1.5", 18) = 1500000000000000000
func ParseUnits(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyAmount
	}
	if decimals < 0 {
		return nil, fmt.Errorf("invalid decimals %d", decimals)
	}
	if strings.HasPrefix(s, "-") {
		return nil, ErrNegativeAmount
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return nil, ErrMultiplePoints
	}

	whole := parts[0]
	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
	}

	// "." alone carries no digits
	if whole == "" && frac == "" {
		return nil, ErrEmptyAmount
	}
	if !allDigits(whole) || !allDigits(frac) {
		return nil, ErrNonDigit
	}

	// Reject instead of truncating
	if len(frac) > decimals {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyFractionals, len(frac), decimals)
	}
	frac += strings.Repeat("0", decimals-len(frac))

	combined := strings.TrimLeft(whole+frac, "0")
	if combined == "" {
		return new(big.Int), nil
	}

	n, ok := new(big.Int).SetString(combined, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return n, nil
}

// FormatUnits converts a smallest-unit integer to a decimal string by shifting the
// decimal point. Trailing fractional zeros are dropped.
// Example: FormatUnits(24981836, 9) = "0.024981836"
func FormatUnits(value *big.Int, decimals int) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -int32(decimals)).String()
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
