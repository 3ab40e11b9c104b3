package models

import "github.com/google/uuid"

// Category groups products on the storefront. Deleting a category is
// restricted while products still reference it.
type Category struct {
	BaseModel
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	Products  []Product `json:"products,omitempty"`
}

// Product is a catalog entry. Prices are integer currency units; orders
// snapshot the unit price at placement time, so later edits here never
// affect a placed order.
type Product struct {
	BaseModel
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Ingredients string    `json:"ingredients"`
	IsAvailable bool      `gorm:"default:true" json:"is_available"`
	CategoryID  uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category    *Category `json:"category,omitempty"`
	SortOrder   int       `json:"sort_order"`
}
