// Package patch computes the minimal set of JSON patch operations that
// brings a remote order resource in line with a newer local snapshot. Orders
// are never resubmitted whole; only changed purchase units travel.
package patch

import (
	"bytes"
	"encoding/json"
	"fmt"

	"paypal-order-sync/internal/order"
)

// Op is a JSON patch operation kind.
type Op string

const (
	OpAdd     Op = "add"
	OpReplace Op = "replace"
	OpRemove  Op = "remove"
)

// Patch is one add/replace/remove instruction. Paths address purchase units
// by reference id predicate, not array index, because remote ordering is not
// guaranteed to match local ordering.
type Patch struct {
	Op    Op              `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

const purchaseUnitsPath = "/purchase_units"

// UnitPath builds the attribute-predicate path for one purchase unit.
func UnitPath(referenceID string) string {
	return fmt.Sprintf("%s/@reference_id=='%s'", purchaseUnitsPath, referenceID)
}

// RemoveUnit builds an explicit removal operation. Diff never emits removals
// itself; dropping a purchase unit from a live order is a deliberate,
// high-risk action that must come from the caller.
func RemoveUnit(referenceID string) Patch {
	return Patch{Op: OpRemove, Path: UnitPath(referenceID)}
}

// Diff computes the operations transforming current into desired. Units are
// matched by reference id; a desired unit that deep-equals its counterpart
// produces nothing, a changed one produces a replace, a new one an add.
// Units present only in current are left alone. Operations come out in
// desired order, so identical inputs yield an empty, deterministic result.
//
// Equality is decided on the serialized wire form, which applies the same
// ditching rules as order creation.
func Diff(current, desired *order.Order) ([]Patch, error) {
	seen := make(map[string]bool, len(desired.PurchaseUnits))
	for _, unit := range desired.PurchaseUnits {
		if seen[unit.ReferenceID] {
			return nil, fmt.Errorf("duplicate reference_id %q in desired order", unit.ReferenceID)
		}
		seen[unit.ReferenceID] = true
	}

	currentByID := make(map[string]json.RawMessage, len(current.PurchaseUnits))
	for _, unit := range current.PurchaseUnits {
		serialized, err := json.Marshal(unit)
		if err != nil {
			return nil, fmt.Errorf("serialize current unit %q: %w", unit.ReferenceID, err)
		}
		currentByID[unit.ReferenceID] = serialized
	}

	var patches []Patch
	for _, unit := range desired.PurchaseUnits {
		serialized, err := json.Marshal(unit)
		if err != nil {
			return nil, fmt.Errorf("serialize desired unit %q: %w", unit.ReferenceID, err)
		}
		existing, ok := currentByID[unit.ReferenceID]
		if !ok {
			patches = append(patches, Patch{
				Op:    OpAdd,
				Path:  purchaseUnitsPath,
				Value: serialized,
			})
			continue
		}
		if bytes.Equal(existing, serialized) {
			continue
		}
		patches = append(patches, Patch{
			Op:    OpReplace,
			Path:  UnitPath(unit.ReferenceID),
			Value: serialized,
		})
	}
	return patches, nil
}
