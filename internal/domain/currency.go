package domain

import (
	"math"
	"strings"
)

// Currency identifies a supported settlement currency.
type Currency string

const (
	CurrencyTND Currency = "TND"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// ParseCurrency parses a currency code, case-insensitively.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.IsValid() {
		return "", ErrInvalidCurrency.withf("unsupported currency %q", code)
	}
	return c, nil
}

// IsValid checks if the currency is supported.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyTND, CurrencyEUR, CurrencyUSD:
		return true
	}
	return false
}

// DecimalPlaces returns the number of decimals amounts are rounded to.
// The Tunisian dinar subdivides into millimes, hence three decimals.
func (c Currency) DecimalPlaces() int {
	if c == CurrencyTND {
		return 3
	}
	return 2
}

// Round rounds an amount to the currency's decimal precision.
func (c Currency) Round(amount float64) float64 {
	factor := math.Pow10(c.DecimalPlaces())
	return math.Round(amount*factor) / factor
}

// String returns the string representation of the currency.
func (c Currency) String() string {
	return string(c)
}
