package disperse

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const addressPrefix = "0x"

// AddressValidator checks the structural validity of recipient addresses.
// With EnforceChecksum set, mixed-case addresses must carry a valid EIP-55 checksum;
// all-lowercase and all-uppercase hex is accepted either way.
type AddressValidator struct {
	EnforceChecksum bool
}

// Validate returns the address token unchanged if it is "0x" followed by exactly
// 40 hex characters. Casing is not normalized.
func (v AddressValidator) Validate(token string) (string, error) {
	if !strings.HasPrefix(token, addressPrefix) || len(token) != len(addressPrefix)+2*common.AddressLength {
		return "", ErrInvalidAddress
	}
	if !common.IsHexAddress(token) {
		return "", ErrInvalidAddress
	}
	if v.EnforceChecksum && isMixedCase(token[len(addressPrefix):]) {
		if common.HexToAddress(token).Hex() != token {
			return "", ErrInvalidAddress
		}
	}
	return token, nil
}

func isMixedCase(hex string) bool {
	return strings.ToLower(hex) != hex && strings.ToUpper(hex) != hex
}
