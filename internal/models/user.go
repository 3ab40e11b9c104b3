package models

// Role controls access to the admin surface.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User represents an account created on first successful OTP verification.
// Users are never hard-deleted once they own orders.
type User struct {
	BaseModel
	Phone         string    `gorm:"uniqueIndex" json:"phone"`
	Name          string    `json:"name"`
	Role          Role      `gorm:"default:customer" json:"role"`
	LoyaltyPoints int64     `json:"loyalty_points"`
	Addresses     []Address `json:"addresses,omitempty"`
	Orders        []Order   `json:"orders,omitempty"`
}
