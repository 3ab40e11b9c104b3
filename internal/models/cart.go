package models

import "github.com/google/uuid"

// Cart is the per-user staging area for an order. Exactly one per user,
// created lazily on the first add.
type Cart struct {
	BaseModel
	UserID uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Items  []CartItem `json:"items,omitempty"`
}

// CartItem holds one product line in a cart. The composite unique index
// backs the atomic insert-or-increment upsert, so a product never occupies
// two rows in the same cart.
type CartItem struct {
	BaseModel
	CartID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_product" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	Quantity  int       `json:"quantity"`
}
