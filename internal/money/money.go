package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency identifies one of the balances an account carries.
type Currency string

const (
	// USD is the dollar-denominated balance.
	USD Currency = "USD"
	// SYP is the pound-denominated balance.
	SYP Currency = "SYP"
	// ATHR is the platform token.
	ATHR Currency = "ATHR"
)

// ErrInvalidAmount occurs when a wire amount is missing, malformed or not positive.
var ErrInvalidAmount = errors.New("amount must be a positive decimal")

// ErrUnsupportedCurrency occurs when a request names a currency outside the quote pair.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// TransferFeeRate is the proportional fee applied to outgoing transfers and
// token sales (0.05% of the sent amount). Token purchases carry no fee.
var TransferFeeRate = decimal.NewFromFloat(0.0005)

// DefaultRates prices one ATHR in each quote currency.
var DefaultRates = map[Currency]decimal.Decimal{
	USD: decimal.NewFromFloat(0.001),
	SYP: decimal.NewFromInt(11),
}

// Round2 rounds to 2 fractional digits, half up. Applied at every
// persistence and display point; intermediate fee/cost math keeps full
// precision. decimal.Round rounds half away from zero, which is half up
// for the non-negative amounts this ledger allows.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParseQuote validates a quote currency from the wire. Only USD and SYP are
// accepted; ATHR is never a quote currency.
func ParseQuote(s string) (Currency, error) {
	switch Currency(strings.ToUpper(strings.TrimSpace(s))) {
	case USD:
		return USD, nil
	case SYP:
		return SYP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, s)
	}
}

// ParseAmount parses a positive decimal string amount from the wire.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return d, nil
}

// Format renders an amount with 2 fixed fractional digits for responses and
// notification text.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
