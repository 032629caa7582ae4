// Package money turns typed amounts into decimals and decimals into the
// strings shown to cashiers.
package money

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	ErrEmpty      = errors.New("amount is empty")
	ErrNotANumber = errors.New("amount is not a number")
	ErrNegative   = errors.New("amount is negative")
)

const displayScale = 2

var displayPrinter = message.NewPrinter(language.MustParse("es-AR"))

// dotGrouped matches "1.500" and "10.000.000": dots used as es-AR thousands
// separators with no decimal part.
var dotGrouped = regexp.MustCompile(`^-?[1-9]\d{0,2}(\.\d{3})+$`)

func init() {
	// The backend reads and writes amounts as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Input is an amount exactly as typed into a form field.
type Input string

// FromDecimal renders d as an Input that parses back to the same value. The
// decimal comma keeps "1.234" from reading as one thousand two hundred.
func FromDecimal(d decimal.Decimal) Input {
	return Input(strings.Replace(d.String(), ".", ",", 1))
}

// Parse accepts plain ("1234.5") and Argentine ("1.234,50", "$ 1.500", "$ 500")
// forms. A lone dot followed by exactly three digits groups thousands, the way
// Format prints them.
// Negative values parse; callers that forbid them check IsNegative or use
// NonNegative.
func (in Input) Parse() (decimal.Decimal, error) {
	s := strings.TrimSpace(string(in))
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, " ", "")

	if s == "" {
		return decimal.Zero, ErrEmpty
	}

	d, err := decimal.NewFromString(normalizeSeparators(s))
	if err != nil {
		return decimal.Zero, ErrNotANumber
	}

	return d, nil
}

// NonNegative is Parse plus a sign check.
func (in Input) NonNegative() (decimal.Decimal, error) {
	d, err := in.Parse()
	if err != nil {
		return decimal.Zero, err
	}

	if d.IsNegative() {
		return decimal.Zero, ErrNegative
	}

	return d, nil
}

// OrZero returns the non-negative value of in, or zero when in is empty,
// unparseable or negative. The backend never receives NaN or a raw string.
func (in Input) OrZero() decimal.Decimal {
	d, err := in.NonNegative()
	if err != nil {
		return decimal.Zero
	}

	return d
}

// Format renders d as "$ 12.345,60".
func Format(d decimal.Decimal) string {
	f, _ := d.Round(displayScale).Float64()
	return "$ " + displayPrinter.Sprint(number.Decimal(f, number.Scale(displayScale)))
}

// normalizeSeparators rewrites s so that '.' is the only decimal separator
// and no grouping separators remain.
func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}

		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}

		return strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1, dotGrouped.MatchString(s):
		return strings.ReplaceAll(s, ".", "")
	}

	return s
}
