package model

import "time"

// OrderSnapshot is the persisted last-known remote state of an order. The
// payload column holds the serialized wire JSON the diff engine rehydrates as
// its baseline.
type OrderSnapshot struct {
	OrderID   string `gorm:"primaryKey;size:64;not null"` // paypal order id
	Status    string `gorm:"size:32;index;not null"`
	Intent    string `gorm:"size:16;not null"`
	Payload   []byte `gorm:"not null"` // serialized order resource
	CreatedAt time.Time
	UpdatedAt time.Time
}
