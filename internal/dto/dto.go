package dto

import "paypal-order-sync/internal/cart"

// CartLine mirrors one host cart row in the HTTP payload.
type CartLine struct {
	Name        string  `json:"name"`
	Sku         string  `json:"sku"`
	CartItemKey string  `json:"cart_item_key"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	UnitTax     float64 `json:"unit_tax"`
	Physical    bool    `json:"physical"`
}

type CartTotals struct {
	Total            float64 `json:"total"`
	ItemTotal        float64 `json:"item_total"`
	TaxTotal         float64 `json:"tax_total"`
	Shipping         float64 `json:"shipping"`
	Discount         float64 `json:"discount"`
	ShippingDiscount float64 `json:"shipping_discount"`
	Handling         float64 `json:"handling"`
	Insurance        float64 `json:"insurance"`
}

type ShippingAddress struct {
	Name        string `json:"name"`
	Line1       string `json:"line1"`
	Line2       string `json:"line2"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
}

// CheckoutRequest carries one cart reading from the host checkout.
type CheckoutRequest struct {
	Currency       string           `json:"currency"`
	Lines          []CartLine       `json:"lines"`
	Totals         CartTotals       `json:"totals"`
	Shipping       *ShippingAddress `json:"shipping,omitempty"`
	Description    string           `json:"description"`
	CustomID       string           `json:"custom_id"`
	InvoiceID      string           `json:"invoice_id"`
	SoftDescriptor string           `json:"soft_descriptor"`
}

// ToCart converts the payload into the builder input.
func (r *CheckoutRequest) ToCart() cart.Cart {
	c := cart.Cart{
		Currency: r.Currency,
		Totals: cart.Totals{
			Total:            r.Totals.Total,
			ItemTotal:        r.Totals.ItemTotal,
			TaxTotal:         r.Totals.TaxTotal,
			Shipping:         r.Totals.Shipping,
			Discount:         r.Totals.Discount,
			ShippingDiscount: r.Totals.ShippingDiscount,
			Handling:         r.Totals.Handling,
			Insurance:        r.Totals.Insurance,
		},
		Description:    r.Description,
		CustomID:       r.CustomID,
		InvoiceID:      r.InvoiceID,
		SoftDescriptor: r.SoftDescriptor,
	}
	for _, line := range r.Lines {
		c.Lines = append(c.Lines, cart.Line{
			Name:        line.Name,
			SKU:         line.Sku,
			CartItemKey: line.CartItemKey,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			UnitTax:     line.UnitTax,
			Physical:    line.Physical,
		})
	}
	if r.Shipping != nil {
		c.ShippingName = r.Shipping.Name
		c.ShippingAddress = &cart.Address{
			Line1:       r.Shipping.Line1,
			Line2:       r.Shipping.Line2,
			City:        r.Shipping.City,
			State:       r.Shipping.State,
			PostalCode:  r.Shipping.PostalCode,
			CountryCode: r.Shipping.CountryCode,
		}
	}
	return c
}

// CapabilitiesResponse reports scope-derived credential capabilities.
type CapabilitiesResponse struct {
	VaultingAvailable bool `json:"vaulting_available"`
	TrackingAvailable bool `json:"tracking_available"`
}

// OrderResponse is returned by the checkout endpoints.
type OrderResponse struct {
	OrderID    string `json:"order_id"`
	Status     string `json:"status"`
	ApproveURL string `json:"approve_url,omitempty"`
	Patched    int    `json:"patched,omitempty"`
}
