package models

import "github.com/google/uuid"

// MaxFavoritesPerUser caps the number of saved bundles per user.
const MaxFavoritesPerUser = 10

// FavoriteOrder is a named bundle of product/quantity pairs used to
// quick-populate the cart. It is a template, not a standing order.
type FavoriteOrder struct {
	BaseModel
	UserID uuid.UUID           `gorm:"type:uuid;index" json:"user_id"`
	Name   string              `json:"name"`
	Items  []FavoriteOrderItem `json:"items,omitempty"`
}

// FavoriteOrderItem is one line of a favorite bundle.
type FavoriteOrderItem struct {
	BaseModel
	FavoriteOrderID uuid.UUID `gorm:"type:uuid;index" json:"favorite_order_id"`
	ProductID       uuid.UUID `gorm:"type:uuid" json:"product_id"`
	Product         *Product  `json:"product,omitempty"`
	Quantity        int       `json:"quantity"`
}
