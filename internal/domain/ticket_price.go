package domain

// TicketPrice is an immutable amount in a supported currency. The amount is
// rounded to the currency's precision on construction and after every
// arithmetic operation.
type TicketPrice struct {
	amount   float64
	currency Currency
}

// NewTicketPrice validates and builds a TicketPrice.
func NewTicketPrice(amount float64, currency Currency) (TicketPrice, error) {
	if !currency.IsValid() {
		return TicketPrice{}, ErrInvalidCurrency.withf("unsupported currency %q", string(currency))
	}
	if amount <= 0 {
		return TicketPrice{}, ErrInvalidPrice
	}
	return TicketPrice{amount: currency.Round(amount), currency: currency}, nil
}

func (p TicketPrice) Amount() float64 { return p.amount }
func (p TicketPrice) Currency() Currency { return p.currency }

// Add returns the sum of two prices in the same currency.
func (p TicketPrice) Add(other TicketPrice) (TicketPrice, error) {
	if p.currency != other.currency {
		return TicketPrice{}, ErrCurrencyMismatch
	}
	return TicketPrice{amount: p.currency.Round(p.amount + other.amount), currency: p.currency}, nil
}

// Subtract returns the difference of two prices; the result may not be
// negative.
func (p TicketPrice) Subtract(other TicketPrice) (TicketPrice, error) {
	if p.currency != other.currency {
		return TicketPrice{}, ErrCurrencyMismatch
	}
	result := p.currency.Round(p.amount - other.amount)
	if result < 0 {
		return TicketPrice{}, ErrNegativePrice
	}
	return TicketPrice{amount: result, currency: p.currency}, nil
}

// Multiply scales the price by a non-negative factor.
func (p TicketPrice) Multiply(factor float64) (TicketPrice, error) {
	if factor < 0 {
		return TicketPrice{}, ErrNegativePrice
	}
	return TicketPrice{amount: p.currency.Round(p.amount * factor), currency: p.currency}, nil
}

// Percentage returns the given percentage of the price.
func (p TicketPrice) Percentage(percent float64) (TicketPrice, error) {
	if percent < 0 {
		return TicketPrice{}, ErrNegativePrice
	}
	return TicketPrice{amount: p.currency.Round(p.amount * percent / 100), currency: p.currency}, nil
}

// ApplyDiscount reduces the price by the given percentage (0-100).
func (p TicketPrice) ApplyDiscount(percent float64) (TicketPrice, error) {
	if percent < 0 || percent > 100 {
		return TicketPrice{}, ErrInvalidPrice.withf("discount percentage must be between 0 and 100")
	}
	return TicketPrice{amount: p.currency.Round(p.amount * (100 - percent) / 100), currency: p.currency}, nil
}

// IsZero reports whether the price was never set.
func (p TicketPrice) IsZero() bool {
	return p.currency == ""
}
