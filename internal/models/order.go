package models

import "github.com/google/uuid"

// OrderStatus is the order lifecycle state. Pending orders await payment;
// delivered and cancelled are terminal.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid reports whether the status is one of the five known values.
// Transitions are deliberately unrestricted beyond this check.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order is an immutable snapshot of a cart at checkout time. Amounts and
// item prices never change after creation, whatever happens to the catalog.
type Order struct {
	BaseModel
	OrderNumber int64       `gorm:"uniqueIndex" json:"order_number"`
	UserID      uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	User        *User       `json:"user,omitempty"`
	Status      OrderStatus `gorm:"default:pending" json:"status"`
	Subtotal    int64       `json:"subtotal"`
	Tax         int64       `json:"tax"`
	DeliveryFee int64       `json:"delivery_fee"`
	TotalAmount int64       `json:"total_amount"`
	Note        string      `json:"note"`
	AddressID   *uuid.UUID  `gorm:"type:uuid" json:"address_id"`
	Address     *Address    `json:"address,omitempty"`
	Items       []OrderItem `json:"items,omitempty"`
	Payment     *Payment    `json:"payment,omitempty"`
}

// OrderItem is a point-in-time copy of a cart line. UnitPrice is the
// product price at placement, not a live join.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
}

// OrderCounter is the single row backing order-number allocation. It is
// read under FOR UPDATE inside the placement transaction so concurrent
// checkouts serialize on it.
type OrderCounter struct {
	ID    int   `gorm:"primaryKey" json:"id"`
	Value int64 `json:"value"`
}

// OrderNumberFloor is the base offset for human-facing order numbers; the
// first order ever placed gets OrderNumberFloor+1.
const OrderNumberFloor int64 = 1000
