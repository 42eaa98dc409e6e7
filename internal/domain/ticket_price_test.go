package domain

import (
	"errors"
	"testing"
)

func TestNewTicketPrice(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency Currency
		want     float64
		wantErr  error
	}{
		{
			name:     "valid TND price rounds to millimes",
			amount:   50.0005,
			currency: CurrencyTND,
			want:     50.001,
		},
		{
			name:     "valid EUR price rounds to cents",
			amount:   19.999,
			currency: CurrencyEUR,
			want:     20.00,
		},
		{
			name:     "zero amount",
			amount:   0,
			currency: CurrencyUSD,
			wantErr:  ErrInvalidPrice,
		},
		{
			name:     "negative amount",
			amount:   -5,
			currency: CurrencyUSD,
			wantErr:  ErrInvalidPrice,
		},
		{
			name:     "unsupported currency",
			amount:   10,
			currency: Currency("GBP"),
			wantErr:  ErrInvalidCurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := NewTicketPrice(tt.amount, tt.currency)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected error %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if price.Amount() != tt.want {
				t.Errorf("Expected amount %v, got %v", tt.want, price.Amount())
			}
		})
	}
}

func TestTicketPrice_Arithmetic(t *testing.T) {
	tnd, _ := NewTicketPrice(50, CurrencyTND)
	eur, _ := NewTicketPrice(10, CurrencyEUR)

	sum, err := tnd.Add(tnd)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sum.Amount() != 100 {
		t.Errorf("Expected 100, got %v", sum.Amount())
	}

	if _, err := tnd.Add(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Expected currency mismatch, got %v", err)
	}

	small, _ := NewTicketPrice(10, CurrencyTND)
	if _, err := small.Subtract(tnd); !errors.Is(err, ErrNegativePrice) {
		t.Errorf("Expected negative price error, got %v", err)
	}

	scaled, err := tnd.Multiply(10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if scaled.Amount() != 500 {
		t.Errorf("Expected 500, got %v", scaled.Amount())
	}

	tenth, err := tnd.Percentage(10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tenth.Amount() != 5 {
		t.Errorf("Expected 5, got %v", tenth.Amount())
	}

	discounted, err := eur.ApplyDiscount(25)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if discounted.Amount() != 7.5 {
		t.Errorf("Expected 7.5, got %v", discounted.Amount())
	}

	if _, err := eur.ApplyDiscount(150); err == nil {
		t.Error("Expected error for discount above 100 percent")
	}
}

func TestCurrency_DecimalPlaces(t *testing.T) {
	if CurrencyTND.DecimalPlaces() != 3 {
		t.Errorf("Expected 3 decimals for TND, got %d", CurrencyTND.DecimalPlaces())
	}
	if CurrencyEUR.DecimalPlaces() != 2 {
		t.Errorf("Expected 2 decimals for EUR, got %d", CurrencyEUR.DecimalPlaces())
	}
	if CurrencyUSD.DecimalPlaces() != 2 {
		t.Errorf("Expected 2 decimals for USD, got %d", CurrencyUSD.DecimalPlaces())
	}
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency("tnd")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c != CurrencyTND {
		t.Errorf("Expected TND, got %s", c)
	}

	if _, err := ParseCurrency("BTC"); !errors.Is(err, ErrInvalidCurrency) {
		t.Errorf("Expected invalid currency error, got %v", err)
	}
}
