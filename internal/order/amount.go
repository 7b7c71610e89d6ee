package order

import (
	"encoding/json"

	"paypal-order-sync/internal/money"
)

// Breakdown holds the named sub-totals of an order amount. Every slot is
// optional; whether the populated slots reconstruct the grand total is
// enforced by the purchase unit, not here.
type Breakdown struct {
	ItemTotal        *money.Money `json:"item_total,omitempty"`
	Shipping         *money.Money `json:"shipping,omitempty"`
	TaxTotal         *money.Money `json:"tax_total,omitempty"`
	Handling         *money.Money `json:"handling,omitempty"`
	Insurance        *money.Money `json:"insurance,omitempty"`
	ShippingDiscount *money.Money `json:"shipping_discount,omitempty"`
	Discount         *money.Money `json:"discount,omitempty"`
}

// Sum reconstructs the grand total from the populated slots:
// shipping + item_total - discount + tax_total - shipping_discount
// + handling + insurance. Each slot enters the sum at its minor-unit-rounded
// value, because that is what the slot serializes to and what the remote
// validator adds up; raw sub-cent noise that cancels before rounding still
// shows up as a mismatch on the wire.
func (b *Breakdown) Sum(currency string) money.Money {
	total := money.Zero(currency)
	add := func(m *money.Money) {
		if m != nil {
			total = total.Add(money.New(m.Rounded(), currency))
		}
	}
	sub := func(m *money.Money) {
		if m != nil {
			total = total.Sub(money.New(m.Rounded(), currency))
		}
	}
	add(b.Shipping)
	add(b.ItemTotal)
	sub(b.Discount)
	add(b.TaxTotal)
	sub(b.ShippingDiscount)
	add(b.Handling)
	add(b.Insurance)
	return total
}

// Amount is a purchase unit's grand total with an optional breakdown.
type Amount struct {
	Total     money.Money
	Breakdown *Breakdown
}

type amountJSON struct {
	CurrencyCode string     `json:"currency_code"`
	Value        string     `json:"value"`
	Breakdown    *Breakdown `json:"breakdown,omitempty"`
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(amountJSON{
		CurrencyCode: a.Total.Currency(),
		Value:        a.Total.Value(),
		Breakdown:    a.Breakdown,
	})
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var raw amountJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	total, err := money.Parse(raw.Value, raw.CurrencyCode)
	if err != nil {
		return newStructuralError("amount", err.Error())
	}
	*a = Amount{Total: total, Breakdown: raw.Breakdown}
	return nil
}

// withoutBreakdown returns a copy carrying only the grand total.
func (a Amount) withoutBreakdown() Amount {
	return Amount{Total: a.Total}
}
