// Package money provides the currency-tagged decimal value used across the
// order model. PayPal only ever sees amounts as strings rounded to the
// currency's minor-unit count, so equality here means "same wire string",
// never raw decimal equality.
package money

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currencies PayPal treats as having no minor unit. Amounts in these
// currencies are formatted with zero decimal places.
var zeroDecimalCurrencies = map[string]bool{
	"HUF": true,
	"JPY": true,
	"TWD": true,
}

// Exponent returns the number of decimal places used on the wire for the
// given ISO 4217 code.
func Exponent(currency string) int32 {
	if zeroDecimalCurrencies[currency] {
		return 0
	}
	return 2
}

// Money is an immutable currency-tagged amount. Construct via New or
// FromFloat; arithmetic methods return new values.
type Money struct {
	amount   decimal.Decimal
	currency string
}

func New(amount decimal.Decimal, currency string) Money {
	return Money{amount: amount, currency: currency}
}

// FromFloat builds a Money from the host commerce system's float totals.
// The raw float precision is kept; rounding happens only at formatting time.
func FromFloat(value float64, currency string) Money {
	return Money{amount: decimal.NewFromFloat(value), currency: currency}
}

func Zero(currency string) Money {
	return Money{currency: currency}
}

func (m Money) Currency() string { return m.currency }

// Amount returns the raw, unrounded decimal.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Value formats the amount for the wire, rounded half away from zero to the
// currency's minor-unit count. Formatting is idempotent: Value of a re-parsed
// Value yields the same string.
func (m Money) Value() string {
	exp := Exponent(m.currency)
	return m.amount.Round(exp).StringFixed(exp)
}

// Rounded returns the amount rounded to the currency's minor unit, which is
// the only form reconciliation arithmetic may compare.
func (m Money) Rounded() decimal.Decimal {
	return m.amount.Round(Exponent(m.currency))
}

func (m Money) Add(o Money) Money {
	return Money{amount: m.amount.Add(o.amount), currency: m.currency}
}

func (m Money) Sub(o Money) Money {
	return Money{amount: m.amount.Sub(o.amount), currency: m.currency}
}

// MulInt multiplies by a line quantity.
func (m Money) MulInt(n int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n))), currency: m.currency}
}

// IsZero reports whether the wire form of the amount is zero.
func (m Money) IsZero() bool {
	return m.Rounded().IsZero()
}

// Equal compares wire representations: same currency and same formatted
// string. Two amounts that differ below the minor unit are equal.
func (m Money) Equal(o Money) bool {
	return m.currency == o.currency && m.Value() == o.Value()
}

type moneyJSON struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{CurrencyCode: m.currency, Value: m.Value()})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := Parse(raw.Value, raw.CurrencyCode)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Parse validates a wire value/currency pair. Both fields are required on
// rehydration; a missing or malformed one is a structural failure the caller
// must surface, not default away.
func Parse(value, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, fmt.Errorf("invalid currency code %q", currency)
	}
	if value == "" {
		return Money{}, fmt.Errorf("missing money value for currency %s", currency)
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money value %q: %w", value, err)
	}
	return Money{amount: amount, currency: currency}, nil
}
