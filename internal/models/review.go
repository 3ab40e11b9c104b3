package models

import "github.com/google/uuid"

// Review is a customer rating for a product, one per (user, product);
// resubmitting overwrites the earlier review.
type Review struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_product_review" json:"user_id"`
	User      *User     `json:"user,omitempty"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_product_review" json:"product_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
}
