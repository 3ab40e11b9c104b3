package models

import "github.com/google/uuid"

// MaxAddressesPerUser caps the address book size.
const MaxAddressesPerUser = 5

// Address is a delivery target. At most one address per user carries
// IsDefault at any time; setting it clears the flag on siblings in the
// same transaction.
type Address struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Label     string    `json:"label"`
	Line      string    `json:"line"`
	Details   string    `json:"details"`
	IsDefault bool      `gorm:"default:false" json:"is_default"`
}
