// Package cart turns the host commerce system's cart/order reading into the
// local order model. Inputs arrive as full-precision floats with independent
// per-line rounding; everything here is an explicit parameter, never ambient
// session state.
package cart

import (
	"fmt"

	"paypal-order-sync/internal/money"
	"paypal-order-sync/internal/order"
)

// Line is one cart row as reported by the host system.
type Line struct {
	Name        string
	SKU         string
	CartItemKey string
	Quantity    int
	UnitPrice   float64
	UnitTax     float64
	Physical    bool
}

// Totals are the host system's aggregate figures. They were rounded
// independently of the per-line figures, which is exactly why purchase unit
// construction may have to ditch the detail.
type Totals struct {
	Total            float64
	ItemTotal        float64
	TaxTotal         float64
	Shipping         float64
	Discount         float64
	ShippingDiscount float64
	Handling         float64
	Insurance        float64
}

// Address is the customer's shipping address from the host checkout.
type Address struct {
	Line1       string
	Line2       string
	City        string
	State       string
	PostalCode  string
	CountryCode string
}

// Cart is the complete input for building one purchase unit.
type Cart struct {
	Currency        string
	Lines           []Line
	Totals          Totals
	ShippingName    string
	ShippingAddress *Address
	Description     string
	CustomID        string
	InvoiceID       string
	SoftDescriptor  string
}

// Items builds the order line items from the cart rows.
func Items(c Cart) ([]order.Item, error) {
	items := make([]order.Item, 0, len(c.Lines))
	for _, line := range c.Lines {
		if line.Quantity < 0 {
			return nil, fmt.Errorf("line %q: negative quantity %d", line.Name, line.Quantity)
		}
		category := order.CategoryDigitalGoods
		if line.Physical {
			category = order.CategoryPhysicalGoods
		}
		item := order.Item{
			Name:        line.Name,
			UnitAmount:  money.FromFloat(line.UnitPrice, c.Currency),
			Quantity:    line.Quantity,
			SKU:         line.SKU,
			Category:    category,
			CartItemKey: line.CartItemKey,
		}
		if line.UnitTax != 0 {
			tax := money.FromFloat(line.UnitTax, c.Currency)
			item.Tax = &tax
		}
		items = append(items, item)
	}
	return items, nil
}

// AmountOf builds the order amount with a breakdown. Item and tax totals are
// always declared when lines exist; the remaining slots only when non-zero.
func AmountOf(c Cart) order.Amount {
	total := money.FromFloat(c.Totals.Total, c.Currency)
	if len(c.Lines) == 0 {
		return order.Amount{Total: total}
	}

	breakdown := &order.Breakdown{}
	set := func(slot **money.Money, value float64) {
		m := money.FromFloat(value, c.Currency)
		*slot = &m
	}
	set(&breakdown.ItemTotal, c.Totals.ItemTotal)
	set(&breakdown.TaxTotal, c.Totals.TaxTotal)
	if c.Totals.Shipping != 0 {
		set(&breakdown.Shipping, c.Totals.Shipping)
	}
	if c.Totals.Discount != 0 {
		set(&breakdown.Discount, c.Totals.Discount)
	}
	if c.Totals.ShippingDiscount != 0 {
		set(&breakdown.ShippingDiscount, c.Totals.ShippingDiscount)
	}
	if c.Totals.Handling != 0 {
		set(&breakdown.Handling, c.Totals.Handling)
	}
	if c.Totals.Insurance != 0 {
		set(&breakdown.Insurance, c.Totals.Insurance)
	}
	return order.Amount{Total: total, Breakdown: breakdown}
}

func shippingOf(c Cart) *order.Shipping {
	if c.ShippingAddress == nil || c.ShippingAddress.CountryCode == "" {
		return nil
	}
	shipping := &order.Shipping{
		Address: &order.Address{
			AddressLine1: c.ShippingAddress.Line1,
			AddressLine2: c.ShippingAddress.Line2,
			AdminArea2:   c.ShippingAddress.City,
			AdminArea1:   c.ShippingAddress.State,
			PostalCode:   c.ShippingAddress.PostalCode,
			CountryCode:  c.ShippingAddress.CountryCode,
		},
	}
	if c.ShippingName != "" {
		shipping.Name = &order.ShippingName{FullName: c.ShippingName}
	}
	return shipping
}

// PurchaseUnit builds the purchase unit for the cart, running the mismatch
// reconciliation. Extra options (reference id, ditch override, tolerance,
// transform hooks) are forwarded to the constructor.
func PurchaseUnit(c Cart, opts ...order.UnitOption) (order.PurchaseUnit, error) {
	if len(c.Currency) != 3 {
		return order.PurchaseUnit{}, fmt.Errorf("invalid currency code %q", c.Currency)
	}
	items, err := Items(c)
	if err != nil {
		return order.PurchaseUnit{}, err
	}

	unitOpts := []order.UnitOption{
		order.WithDescription(c.Description),
		order.WithCustomID(c.CustomID),
		order.WithInvoiceID(c.InvoiceID),
		order.WithSoftDescriptor(c.SoftDescriptor),
	}
	if shipping := shippingOf(c); shipping != nil {
		unitOpts = append(unitOpts, order.WithShipping(shipping))
	}
	unitOpts = append(unitOpts, opts...)

	return order.NewPurchaseUnit(AmountOf(c), items, unitOpts...), nil
}

// Order builds the full desired snapshot for the cart.
func Order(c Cart, intent order.Intent, opts ...order.UnitOption) (*order.Order, error) {
	unit, err := PurchaseUnit(c, opts...)
	if err != nil {
		return nil, err
	}
	return order.NewOrder(intent, unit), nil
}
