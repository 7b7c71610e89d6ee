// Package order models the PayPal Orders v2 resource locally: immutable
// money values, line items, purchase units with mismatch reconciliation, and
// the order snapshot the diff engine works on.
package order

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status of an order resource. Internal marks a snapshot that has not been
// created remotely yet.
type Status string

const (
	StatusInternal  Status = "INTERNAL"
	StatusCreated   Status = "CREATED"
	StatusSaved     Status = "SAVED"
	StatusApproved  Status = "APPROVED"
	StatusVoided    Status = "VOIDED"
	StatusCompleted Status = "COMPLETED"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusInternal, StatusCreated, StatusSaved, StatusApproved, StatusVoided, StatusCompleted:
		return Status(s), nil
	default:
		return "", newStructuralError("status", fmt.Sprintf("unknown status %q", s))
	}
}

// Intent of an order: capture funds immediately or authorize first.
type Intent string

const (
	IntentCapture   Intent = "CAPTURE"
	IntentAuthorize Intent = "AUTHORIZE"
)

func ParseIntent(s string) (Intent, error) {
	switch Intent(s) {
	case IntentCapture, IntentAuthorize:
		return Intent(s), nil
	default:
		return "", newStructuralError("intent", fmt.Sprintf("unknown intent %q", s))
	}
}

// Order is an immutable point-in-time snapshot of an order resource, either
// built locally (desired state) or rehydrated from the remote (current
// state).
type Order struct {
	ID            string         `json:"id,omitempty"`
	Status        Status         `json:"status,omitempty"`
	Intent        Intent         `json:"intent"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
	Payer         *Payer         `json:"payer,omitempty"`
	PaymentSource *PaymentSource `json:"payment_source,omitempty"`
	CreateTime    *time.Time     `json:"create_time,omitempty"`
	UpdateTime    *time.Time     `json:"update_time,omitempty"`
}

// NewOrder builds a local, not-yet-created snapshot.
func NewOrder(intent Intent, units ...PurchaseUnit) *Order {
	return &Order{
		Status:        StatusInternal,
		Intent:        intent,
		PurchaseUnits: units,
	}
}

// Created reports whether the snapshot corresponds to a remote resource.
func (o *Order) Created() bool {
	return o.ID != "" && o.Status != StatusInternal
}

// Unit returns the purchase unit with the given reference id, or nil.
func (o *Order) Unit(referenceID string) *PurchaseUnit {
	for i := range o.PurchaseUnits {
		if o.PurchaseUnits[i].ReferenceID == referenceID {
			return &o.PurchaseUnits[i]
		}
	}
	return nil
}

// ParseOrder rehydrates a snapshot from its wire JSON. Structural problems
// (missing reference ids, malformed money, unknown enum values) surface as
// StructuralError; nothing is silently defaulted.
func ParseOrder(data []byte) (*Order, error) {
	var raw struct {
		ID            string         `json:"id"`
		Status        string         `json:"status"`
		Intent        string         `json:"intent"`
		PurchaseUnits []PurchaseUnit `json:"purchase_units"`
		Payer         *Payer         `json:"payer"`
		PaymentSource *PaymentSource `json:"payment_source"`
		CreateTime    *time.Time     `json:"create_time"`
		UpdateTime    *time.Time     `json:"update_time"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}

	status := StatusInternal
	if raw.Status != "" {
		parsed, err := ParseStatus(raw.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	intent := IntentCapture
	if raw.Intent != "" {
		parsed, err := ParseIntent(raw.Intent)
		if err != nil {
			return nil, err
		}
		intent = parsed
	}

	if len(raw.PurchaseUnits) == 0 {
		return nil, newStructuralError("purchase_units", "missing")
	}

	return &Order{
		ID:            raw.ID,
		Status:        status,
		Intent:        intent,
		PurchaseUnits: raw.PurchaseUnits,
		Payer:         raw.Payer,
		PaymentSource: raw.PaymentSource,
		CreateTime:    raw.CreateTime,
		UpdateTime:    raw.UpdateTime,
	}, nil
}
