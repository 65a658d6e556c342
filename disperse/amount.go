package disperse

import (
	"fmt"
	"math/big"

	"github.com/AlexZinkM/disperse/internal/common"
)

// DefaultDecimals is the base-unit exponent of the native token
const DefaultDecimals = common.NativeDecimals

// AmountNormalizer converts human decimal amounts to the smallest unit
type AmountNormalizer struct {
	Decimals int
}

// Normalize parses token exactly. Negative values, signs, exponents, extra decimal
// points and more fractional digits than Decimals are rejected.
func (n AmountNormalizer) Normalize(token string) (*big.Int, error) {
	amount, err := common.ParseUnits(token, n.Decimals)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	return amount, nil
}

// Format renders a smallest-unit amount back to a decimal string.
// Normalize(Format(x)) == x for every x >= 0.
func (n AmountNormalizer) Format(amount *big.Int) string {
	return common.FormatUnits(amount, n.Decimals)
}
