package order

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"paypal-order-sync/internal/money"
)

// DitchDecision is the outcome of reconciling a purchase unit's line items
// against its declared totals. When Ditch is true the serialized unit omits
// items and breakdown and carries only the grand total.
type DitchDecision struct {
	Ditch  bool
	Reason string
}

// DitchOverride lets a caller force-ditch or force-keep regardless of the
// computed decision, e.g. for currencies known to round safely.
type DitchOverride func(PurchaseUnit, DitchDecision) DitchDecision

// Transform is a post-construction hook applied once to the built unit.
// The reconciliation decision is recomputed after it runs.
type Transform func(PurchaseUnit) PurchaseUnit

// PurchaseUnit is a priceable fragment of an order. Build it with
// NewPurchaseUnit and treat it as immutable afterwards; each build computes
// its reconciliation decision from scratch.
type PurchaseUnit struct {
	ReferenceID    string
	Amount         Amount
	Items          []Item
	Shipping       *Shipping
	Description    string
	Payee          *Payee
	CustomID       string
	InvoiceID      string
	SoftDescriptor string
	Payments       *Payments

	containsPhysicalGoods bool
	ditch                 DitchDecision
}

// DefaultReferenceID is used when the caller does not assign one. PayPal
// requires every purchase unit to carry a reference id for patching.
const DefaultReferenceID = "default"

type unitConfig struct {
	unit      PurchaseUnit
	tolerance decimal.Decimal
	override  DitchOverride
	transform Transform
}

// UnitOption configures NewPurchaseUnit.
type UnitOption func(*unitConfig)

func WithReferenceID(id string) UnitOption {
	return func(c *unitConfig) { c.unit.ReferenceID = id }
}

func WithDescription(d string) UnitOption {
	return func(c *unitConfig) { c.unit.Description = d }
}

func WithCustomID(id string) UnitOption {
	return func(c *unitConfig) { c.unit.CustomID = id }
}

func WithInvoiceID(id string) UnitOption {
	return func(c *unitConfig) { c.unit.InvoiceID = id }
}

func WithSoftDescriptor(d string) UnitOption {
	return func(c *unitConfig) { c.unit.SoftDescriptor = d }
}

func WithPayee(p *Payee) UnitOption {
	return func(c *unitConfig) { c.unit.Payee = p }
}

func WithShipping(s *Shipping) UnitOption {
	return func(c *unitConfig) { c.unit.Shipping = s }
}

func WithPayments(p *Payments) UnitOption {
	return func(c *unitConfig) { c.unit.Payments = p }
}

// WithTolerance sets the rounding tolerance for the mismatch checks. The
// default is exact zero: any rounded remainder ditches the detail.
func WithTolerance(t decimal.Decimal) UnitOption {
	return func(c *unitConfig) { c.tolerance = t }
}

// WithDitchOverride installs an external force-ditch/force-keep decision.
func WithDitchOverride(o DitchOverride) UnitOption {
	return func(c *unitConfig) { c.override = o }
}

// WithTransform installs a post-construction hook, applied once.
func WithTransform(t Transform) UnitOption {
	return func(c *unitConfig) { c.transform = t }
}

// NewPurchaseUnit builds a purchase unit and runs the mismatch
// reconciliation. It never fails on numeric inconsistency; it degrades by
// ditching the detailed payload instead.
func NewPurchaseUnit(amount Amount, items []Item, opts ...UnitOption) PurchaseUnit {
	cfg := unitConfig{
		unit: PurchaseUnit{
			ReferenceID: DefaultReferenceID,
			Amount:      amount,
			Items:       items,
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	unit := finalize(cfg.unit, cfg.tolerance, cfg.override)
	if cfg.transform != nil {
		// Hook output is re-reconciled so a transform cannot smuggle
		// inconsistent detail past the mismatch checks.
		unit = finalize(cfg.transform(unit), cfg.tolerance, cfg.override)
	}
	return unit
}

func finalize(unit PurchaseUnit, tolerance decimal.Decimal, override DitchOverride) PurchaseUnit {
	unit.containsPhysicalGoods = false
	for _, item := range unit.Items {
		if item.Category == CategoryPhysicalGoods {
			unit.containsPhysicalGoods = true
			break
		}
	}
	decision := reconcile(unit.Amount, unit.Items, tolerance)
	if override != nil {
		decision = override(unit, decision)
	}
	unit.ditch = decision
	return unit
}

// reconcile checks that the line items reconstruct the declared breakdown
// totals and that the breakdown slots reconstruct the grand total. All
// comparisons happen after rounding to the currency's minor unit; the raw
// float noise below that never counts as a mismatch.
func reconcile(amount Amount, items []Item, tolerance decimal.Decimal) DitchDecision {
	breakdown := amount.Breakdown
	if breakdown == nil {
		if len(items) == 0 {
			return DitchDecision{}
		}
		// Items without a breakdown cannot be validated remotely.
		return DitchDecision{Ditch: true, Reason: "line items present without a breakdown"}
	}
	currency := amount.Total.Currency()

	if breakdown.ItemTotal != nil {
		itemSum := decimal.Zero
		for _, item := range items {
			itemSum = itemSum.Add(item.TotalAmount().Amount())
		}
		remaining := breakdown.ItemTotal.Rounded().Sub(roundTo(itemSum, currency))
		if remaining.Abs().GreaterThan(tolerance) {
			return DitchDecision{
				Ditch: true,
				Reason: fmt.Sprintf("item total mismatch: breakdown declares %s, line items sum to %s",
					breakdown.ItemTotal.Value(), roundTo(itemSum, currency).String()),
			}
		}
	}

	if breakdown.TaxTotal != nil {
		taxSum := decimal.Zero
		for _, item := range items {
			taxSum = taxSum.Add(item.TotalTax().Amount())
		}
		remaining := breakdown.TaxTotal.Rounded().Sub(roundTo(taxSum, currency))
		if remaining.Abs().GreaterThan(tolerance) {
			return DitchDecision{
				Ditch: true,
				Reason: fmt.Sprintf("tax total mismatch: breakdown declares %s, line items sum to %s",
					breakdown.TaxTotal.Value(), roundTo(taxSum, currency).String()),
			}
		}
	}

	reconstructed := breakdown.Sum(currency)
	drift := reconstructed.Rounded().Sub(amount.Total.Rounded())
	if drift.Abs().GreaterThan(tolerance) {
		return DitchDecision{
			Ditch: true,
			Reason: fmt.Sprintf("breakdown sum mismatch: slots sum to %s, total is %s",
				reconstructed.Value(), amount.Total.Value()),
		}
	}

	return DitchDecision{}
}

func roundTo(d decimal.Decimal, currency string) decimal.Decimal {
	return d.Round(money.Exponent(currency))
}

// ContainsPhysicalGoods reports whether any line item ships physically.
// Derived once at construction.
func (u PurchaseUnit) ContainsPhysicalGoods() bool {
	return u.containsPhysicalGoods
}

// Ditched reports whether serialization drops items and breakdown.
func (u PurchaseUnit) Ditched() bool {
	return u.ditch.Ditch
}

// DitchReason is a human-readable diagnostic for a ditched unit.
func (u PurchaseUnit) DitchReason() string {
	return u.ditch.Reason
}

type purchaseUnitJSON struct {
	ReferenceID    string    `json:"reference_id"`
	Amount         Amount    `json:"amount"`
	Items          []Item    `json:"items,omitempty"`
	Description    string    `json:"description,omitempty"`
	Payee          *Payee    `json:"payee,omitempty"`
	CustomID       string    `json:"custom_id,omitempty"`
	InvoiceID      string    `json:"invoice_id,omitempty"`
	SoftDescriptor string    `json:"soft_descriptor,omitempty"`
	Shipping       *Shipping `json:"shipping,omitempty"`
	Payments       *Payments `json:"payments,omitempty"`
}

// MarshalJSON is the reconciliation-aware serializer. A ditched unit keeps
// only the grand total so the remote validator never sees inconsistent
// detail; the same form is used for creates and patches.
func (u PurchaseUnit) MarshalJSON() ([]byte, error) {
	out := purchaseUnitJSON{
		ReferenceID:    u.ReferenceID,
		Amount:         u.Amount,
		Items:          u.Items,
		Description:    u.Description,
		Payee:          u.Payee,
		CustomID:       u.CustomID,
		InvoiceID:      u.InvoiceID,
		SoftDescriptor: u.SoftDescriptor,
		Shipping:       u.Shipping,
		Payments:       u.Payments,
	}
	if u.ditch.Ditch {
		out.Amount = u.Amount.withoutBreakdown()
		out.Items = nil
	}
	return json.Marshal(out)
}

func (u *PurchaseUnit) UnmarshalJSON(data []byte) error {
	var raw purchaseUnitJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ReferenceID == "" {
		return newStructuralError("purchase_units.reference_id", "missing")
	}
	if raw.Amount.Total.Currency() == "" {
		return newStructuralError("purchase_units.amount", "missing")
	}
	unit := PurchaseUnit{
		ReferenceID:    raw.ReferenceID,
		Amount:         raw.Amount,
		Items:          raw.Items,
		Description:    raw.Description,
		Payee:          raw.Payee,
		CustomID:       raw.CustomID,
		InvoiceID:      raw.InvoiceID,
		SoftDescriptor: raw.SoftDescriptor,
		Shipping:       raw.Shipping,
		Payments:       raw.Payments,
	}
	for _, item := range unit.Items {
		if item.Category == CategoryPhysicalGoods {
			unit.containsPhysicalGoods = true
			break
		}
	}
	*u = unit
	return nil
}
