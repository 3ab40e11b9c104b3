package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/sofreh/internal/models"
)

// Charge constants. Tax is rounded half-up to the nearest currency unit.
const (
	TaxRate            = 0.09
	DeliveryFee  int64 = 25000
	orderCounterID     = 1
)

// ErrEmptyCart is returned when checkout finds no cart or no items.
var ErrEmptyCart = errors.New("cart is empty")

// ErrAddressNotFound is returned when the delivery address does not exist
// or belongs to another user.
var ErrAddressNotFound = errors.New("address not found")

// UnavailableProductError aborts checkout when any cart line references a
// product that is currently not orderable.
type UnavailableProductError struct {
	Name string
}

func (e *UnavailableProductError) Error() string {
	return fmt.Sprintf("product %q is currently unavailable", e.Name)
}

// ComputeCharges derives tax and total from a subtotal.
func ComputeCharges(subtotal int64) (tax, total int64) {
	tax = int64(math.Round(float64(subtotal) * TaxRate))
	total = subtotal + tax + DeliveryFee
	return tax, total
}

// CheckoutService converts carts into orders.
type CheckoutService struct {
	db *gorm.DB
}

// NewCheckoutService constructs CheckoutService.
func NewCheckoutService(db *gorm.DB) *CheckoutService {
	return &CheckoutService{db: db}
}

// PlaceOrder runs the whole conversion in one transaction: validate the
// cart against live availability, compute charges, allocate the next
// order number under a row lock, snapshot cart lines into order items and
// clear the cart. A failure at any step leaves cart and orders untouched;
// concurrent placements serialize on the counter row, so order numbers
// are strictly increasing and never reused.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, note string, addressID *uuid.UUID) (*models.Order, error) {
	var order models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Preload("Items.Product").
			Where("user_id = ?", userID).
			First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		var subtotal int64
		for _, item := range cart.Items {
			if item.Product == nil {
				return &UnavailableProductError{Name: item.ProductID.String()}
			}
			if !item.Product.IsAvailable {
				return &UnavailableProductError{Name: item.Product.Name}
			}
			subtotal += item.Product.Price * int64(item.Quantity)
		}
		tax, total := ComputeCharges(subtotal)

		if addressID != nil {
			var address models.Address
			if err := tx.Where("id = ? AND user_id = ?", *addressID, userID).
				First(&address).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrAddressNotFound
				}
				return err
			}
		}

		var counter models.OrderCounter
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&counter, "id = ?", orderCounterID).Error; err != nil {
			return err
		}
		counter.Value++
		if err := tx.Model(&models.OrderCounter{}).
			Where("id = ?", counter.ID).
			Update("value", counter.Value).Error; err != nil {
			return err
		}

		order = models.Order{
			OrderNumber: counter.Value,
			UserID:      userID,
			Status:      models.OrderPending,
			Subtotal:    subtotal,
			Tax:         tax,
			DeliveryFee: DeliveryFee,
			TotalAmount: total,
			Note:        note,
			AddressID:   addressID,
		}
		for _, item := range cart.Items {
			order.Items = append(order.Items, models.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.Product.Price,
			})
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}
