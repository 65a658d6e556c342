package disperse

import (
	"errors"
	"math/big"
	"strings"
	"unicode"

	"github.com/AlexZinkM/disperse/internal/model"
)

// Parser turns free text into recipient entries, one outcome per non-blank line.
// It holds no mutable state; Parse is a pure function of its input.
type Parser struct {
	addresses AddressValidator
	amounts   AmountNormalizer
}

// NewParser creates a parser for a token with the given base-unit exponent
func NewParser(decimals int, enforceChecksum bool) *Parser {
	return &Parser{
		addresses: AddressValidator{EnforceChecksum: enforceChecksum},
		amounts:   AmountNormalizer{Decimals: decimals},
	}
}

var defaultParser = NewParser(DefaultDecimals, false)

// Parse parses text with 18 decimals and no checksum enforcement
func Parse(text string) model.ParseResult {
	return defaultParser.Parse(text)
}

// FormatAmount renders a smallest-unit amount with the parser's decimals
func (p *Parser) FormatAmount(v *big.Int) string {
	return p.amounts.Format(v)
}

// Parse splits text into lines and parses each one. A bad line becomes a
// ParseError and does not stop the remaining lines from being parsed.
func (p *Parser) Parse(text string) model.ParseResult {
	var result model.ParseResult

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, err := p.parseLine(line)
		if err != nil {
			result.Errors = append(result.Errors, model.ParseError{
				RawLine:    line,
				LineNumber: i + 1,
				Reason:     reasonOf(err),
				Detail:     err.Error(),
			})
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	return result
}

func (p *Parser) parseLine(line string) (model.RecipientEntry, error) {
	tokens := strings.FieldsFunc(line, isSeparator)
	if len(tokens) != 2 {
		return model.RecipientEntry{}, ErrMalformedLine
	}

	address, err := p.addresses.Validate(tokens[0])
	if err != nil {
		return model.RecipientEntry{}, err
	}

	amount, err := p.amounts.Normalize(tokens[1])
	if err != nil {
		return model.RecipientEntry{}, err
	}

	return model.RecipientEntry{
		RawLine: line,
		Address: address,
		Amount:  amount,
	}, nil
}

// isSeparator matches whitespace, comma and '='. FieldsFunc collapses runs of them.
func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == ',' || r == '='
}

func reasonOf(err error) model.ParseErrorReason {
	switch {
	case errors.Is(err, ErrInvalidAddress):
		return model.ReasonInvalidAddress
	case errors.Is(err, ErrInvalidAmount):
		return model.ReasonInvalidAmount
	default:
		return model.ReasonMalformedLine
	}
}
