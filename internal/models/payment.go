package models

import "github.com/google/uuid"

// PaymentStatus is the state of a single authorization attempt.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment records the one authorization attempt tied to an order. The
// unique index on OrderID enforces the 1:1 relationship at the store.
type Payment struct {
	BaseModel
	OrderID       uuid.UUID     `gorm:"type:uuid;uniqueIndex" json:"order_id"`
	Order         *Order        `json:"order,omitempty"`
	Amount        int64         `json:"amount"`
	Status        PaymentStatus `gorm:"default:pending" json:"status"`
	Gateway       string        `json:"gateway"`
	TransactionID string        `gorm:"index" json:"transaction_id"`
	ReferenceID   string        `json:"reference_id"`
}
