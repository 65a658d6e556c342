package disperse

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/disperse/internal/model"
)

const (
	addr1 = "0xAbC1230000000000000000000000000000000001"
	addr2 = "0xAbC1230000000000000000000000000000000002"
)

var canonicalAddress = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

func TestParse_TwoRecipientsMixedSeparators(t *testing.T) {
	result := Parse(addr1 + " 1.5\n" + addr2 + ",2.25")

	require.Empty(t, result.Errors)
	require.Len(t, result.Entries, 2)

	assert.Equal(t, addr1, result.Entries[0].Address)
	assert.Equal(t, "1500000000000000000", result.Entries[0].Amount.String())
	assert.Equal(t, addr2, result.Entries[1].Address)
	assert.Equal(t, "2250000000000000000", result.Entries[1].Amount.String())

	plan, err := Aggregate(result.Entries)
	require.NoError(t, err)
	assert.Equal(t, "3750000000000000000", plan.Total.String())
}

func TestParse_InvalidAddress(t *testing.T) {
	result := Parse("not-an-address 1.0")

	assert.Empty(t, result.Entries)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.ReasonInvalidAddress, result.Errors[0].Reason)
	assert.Equal(t, 1, result.Errors[0].LineNumber)
	assert.Equal(t, "not-an-address 1.0", result.Errors[0].RawLine)
}

func TestParse_NegativeAmount(t *testing.T) {
	result := Parse(addr1 + " -1")

	assert.Empty(t, result.Entries)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.ReasonInvalidAmount, result.Errors[0].Reason)
}

func TestParse_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n\t\n", "\r\n"} {
		result := Parse(text)
		assert.Empty(t, result.Entries)
		assert.Empty(t, result.Errors)

		_, err := Aggregate(result.Entries)
		assert.ErrorIs(t, err, ErrEmptyBatch)
	}
}

func TestParse_LineOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		reason model.ParseErrorReason
		amount string
	}{
		{name: "space", line: addr1 + " 1", amount: "1000000000000000000"},
		{name: "tab", line: addr1 + "\t0.5", amount: "500000000000000000"},
		{name: "equals", line: addr1 + "=3", amount: "3000000000000000000"},
		{name: "collapsed separators", line: addr1 + " ,= , 0.25", amount: "250000000000000000"},
		{name: "surrounding spaces", line: "   " + addr1 + " 2   ", amount: "2000000000000000000"},
		{name: "crlf", line: addr1 + " 1\r", amount: "1000000000000000000"},
		{name: "lowercase", line: "0xabc1230000000000000000000000000000000001 1", amount: "1000000000000000000"},
		{name: "zero amount", line: addr1 + " 0", amount: "0"},
		{name: "address only", line: addr1, reason: model.ReasonMalformedLine},
		{name: "three tokens", line: addr1 + " 1 2", reason: model.ReasonMalformedLine},
		{name: "no prefix", line: "AbC1230000000000000000000000000000000001 1", reason: model.ReasonInvalidAddress},
		{name: "short address", line: "0xAbC123 1", reason: model.ReasonInvalidAddress},
		{name: "long address", line: addr1 + "0 1", reason: model.ReasonInvalidAddress},
		{name: "non hex", line: "0xZbC1230000000000000000000000000000000001 1", reason: model.ReasonInvalidAddress},
		{name: "two points", line: addr1 + " 1.2.3", reason: model.ReasonInvalidAmount},
		{name: "letters", line: addr1 + " abc", reason: model.ReasonInvalidAmount},
		{name: "precision loss", line: addr1 + " 0.0000000000000000001", reason: model.ReasonInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.line)
			if tt.reason != "" {
				assert.Empty(t, result.Entries)
				require.Len(t, result.Errors, 1)
				assert.Equal(t, tt.reason, result.Errors[0].Reason)
				return
			}
			require.Empty(t, result.Errors)
			require.Len(t, result.Entries, 1)
			assert.Equal(t, tt.amount, result.Entries[0].Amount.String())
		})
	}
}

func TestParse_BadLineDoesNotAbort(t *testing.T) {
	text := addr1 + " 1\n\ngarbage\n" + addr2 + " 2\n" + addr2 + " x"
	result := Parse(text)

	require.Len(t, result.Entries, 2)
	assert.Equal(t, addr1, result.Entries[0].Address)
	assert.Equal(t, addr2, result.Entries[1].Address)

	require.Len(t, result.Errors, 2)
	assert.Equal(t, 3, result.Errors[0].LineNumber)
	assert.Equal(t, model.ReasonMalformedLine, result.Errors[0].Reason)
	assert.Equal(t, 5, result.Errors[1].LineNumber)
	assert.Equal(t, model.ReasonInvalidAmount, result.Errors[1].Reason)
}

func TestParse_OneOutcomePerLine(t *testing.T) {
	text := addr1 + " 1\nbad\n" + addr2 + " 0.1\n \n" + addr1 + " -3\n" + addr2 + " 4"
	result := Parse(text)

	nonBlank := 5
	assert.Equal(t, nonBlank, len(result.Entries)+len(result.Errors))

	for _, e := range result.Entries {
		assert.GreaterOrEqual(t, e.Amount.Sign(), 0)
		assert.Regexp(t, canonicalAddress, e.Address)
	}
}

func TestParse_Deterministic(t *testing.T) {
	text := addr1 + " 1.5\nbad line here\n" + addr2 + "=0.000001\n\n" + addr1 + ",7"
	assert.Equal(t, Parse(text), Parse(text))
}

func TestParser_Decimals(t *testing.T) {
	p := NewParser(6, false)
	result := p.Parse(addr1 + " 1.5\n" + addr2 + " 0.1234567")

	require.Len(t, result.Entries, 1)
	assert.Equal(t, "1500000", result.Entries[0].Amount.String())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.ReasonInvalidAmount, result.Errors[0].Reason)
}
