package common

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnits(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		decimals int
		want     string
		wantErr  error
	}{
		{name: "whole", input: "2", decimals: 18, want: "2000000000000000000"},
		{name: "fraction", input: "1.5", decimals: 18, want: "1500000000000000000"},
		{name: "two places", input: "2.25", decimals: 18, want: "2250000000000000000"},
		{name: "leading point", input: ".5", decimals: 6, want: "500000"},
		{name: "trailing point", input: "3.", decimals: 6, want: "3000000"},
		{name: "zero", input: "0.000", decimals: 6, want: "0"},
		{name: "one wei", input: "0.000000000000000001", decimals: 18, want: "1"},
		{name: "beyond uint64", input: "123456789012345678901234567890", decimals: 18, want: "123456789012345678901234567890000000000000000000"},
		{name: "spaces trimmed", input: "  7 ", decimals: 0, want: "7"},
		{name: "empty", input: "", decimals: 18, wantErr: ErrEmptyAmount},
		{name: "point only", input: ".", decimals: 18, wantErr: ErrEmptyAmount},
		{name: "negative", input: "-1", decimals: 18, wantErr: ErrNegativeAmount},
		{name: "two points", input: "1.2.3", decimals: 18, wantErr: ErrMultiplePoints},
		{name: "letters", input: "1e18", decimals: 18, wantErr: ErrNonDigit},
		{name: "plus sign", input: "+1", decimals: 18, wantErr: ErrNonDigit},
		{name: "precision loss", input: "0.1234567", decimals: 6, wantErr: ErrTooManyFractionals},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUnits(tt.input, tt.decimals)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		value    string
		decimals int
		want     string
	}{
		{value: "24981836", decimals: 9, want: "0.024981836"},
		{value: "1500000000000000000", decimals: 18, want: "1.5"},
		{value: "3750000000000000000", decimals: 18, want: "3.75"},
		{value: "0", decimals: 18, want: "0"},
		{value: "1", decimals: 18, want: "0.000000000000000001"},
		{value: "42", decimals: 0, want: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			v, ok := new(big.Int).SetString(tt.value, 10)
			require.True(t, ok)
			assert.Equal(t, tt.want, FormatUnits(v, tt.decimals))
		})
	}

	assert.Equal(t, "0", FormatUnits(nil, 18))
}
