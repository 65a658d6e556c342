package model

import "math/big"

// ParseErrorReason why an input line was rejected
type ParseErrorReason string

const (
	ReasonMalformedLine  ParseErrorReason = "MALFORMED_LINE"
	ReasonInvalidAddress ParseErrorReason = "INVALID_ADDRESS"
	ReasonInvalidAmount  ParseErrorReason = "INVALID_AMOUNT"
)

// RecipientEntry is one accepted input line.
// Amount is in the smallest on-chain unit and is never negative.
type RecipientEntry struct {
	RawLine string
	Address string
	Amount  *big.Int
}

// ParseError is one rejected input line. LineNumber is 1-based and counts blank lines.
type ParseError struct {
	RawLine    string           `json:"rawLine"`
	LineNumber int              `json:"lineNumber"`
	Reason     ParseErrorReason `json:"reason"`
	Detail     string           `json:"detail,omitempty"`
}

// ParseResult holds the outcome of every non-blank input line, in input order
type ParseResult struct {
	Entries []RecipientEntry
	Errors  []ParseError
}
