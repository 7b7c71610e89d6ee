package order

import (
	"encoding/json"
	"fmt"
	"strconv"

	"paypal-order-sync/internal/money"
)

// Category classifies a line item. It decides whether the owning purchase
// unit needs a shipping address.
type Category string

const (
	CategoryPhysicalGoods Category = "PHYSICAL_GOODS"
	CategoryDigitalGoods  Category = "DIGITAL_GOODS"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryPhysicalGoods, CategoryDigitalGoods:
		return Category(s), nil
	default:
		return "", newStructuralError("items.category", fmt.Sprintf("unknown category %q", s))
	}
}

// Item is a single purchasable line: unit price, quantity and per-unit tax.
// Built once from host cart data and treated as immutable afterwards.
type Item struct {
	Name       string
	UnitAmount money.Money
	Quantity   int
	Tax        *money.Money
	SKU        string
	Category   Category

	// CartItemKey ties the line back to the host cart entry. Local only,
	// never serialized.
	CartItemKey string
}

// TotalAmount is unit price times quantity, unrounded.
func (i Item) TotalAmount() money.Money {
	return i.UnitAmount.MulInt(i.Quantity)
}

// TotalTax is per-unit tax times quantity, unrounded. Zero when the item
// carries no tax.
func (i Item) TotalTax() money.Money {
	if i.Tax == nil {
		return money.Zero(i.UnitAmount.Currency())
	}
	return i.Tax.MulInt(i.Quantity)
}

type itemJSON struct {
	Name       string       `json:"name"`
	UnitAmount money.Money  `json:"unit_amount"`
	Tax        *money.Money `json:"tax,omitempty"`
	Quantity   string       `json:"quantity"`
	SKU        string       `json:"sku,omitempty"`
	Category   Category     `json:"category,omitempty"`
}

func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemJSON{
		Name:       i.Name,
		UnitAmount: i.UnitAmount,
		Tax:        i.Tax,
		Quantity:   strconv.Itoa(i.Quantity),
		SKU:        i.SKU,
		Category:   i.Category,
	})
}

func (i *Item) UnmarshalJSON(data []byte) error {
	var raw itemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.UnitAmount.Currency() == "" {
		return newStructuralError("items.unit_amount", "missing")
	}
	qty, err := strconv.Atoi(raw.Quantity)
	if err != nil {
		return newStructuralError("items.quantity", fmt.Sprintf("not an integer: %q", raw.Quantity))
	}
	if qty < 0 {
		return newStructuralError("items.quantity", fmt.Sprintf("negative quantity %d", qty))
	}
	category := raw.Category
	if category != "" {
		if category, err = ParseCategory(string(category)); err != nil {
			return err
		}
	}
	*i = Item{
		Name:       raw.Name,
		UnitAmount: raw.UnitAmount,
		Tax:        raw.Tax,
		Quantity:   qty,
		SKU:        raw.SKU,
		Category:   category,
	}
	return nil
}
