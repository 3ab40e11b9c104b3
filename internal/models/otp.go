package models

import (
	"time"

	"github.com/google/uuid"
)

// OtpCode is a one-time login code sent to a phone number. A code may be
// issued before the user exists, so UserID is nullable.
type OtpCode struct {
	BaseModel
	Phone     string     `gorm:"index" json:"phone"`
	Code      string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	Used      bool       `gorm:"default:false" json:"used"`
	UserID    *uuid.UUID `gorm:"type:uuid" json:"user_id"`
}

// OtpTTL is how long a code stays verifiable after issuance.
const OtpTTL = 2 * time.Minute
