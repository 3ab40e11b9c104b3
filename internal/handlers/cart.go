package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/sofreh/internal/middleware"
	"github.com/example/sofreh/internal/models"
)

const maxQuantityPerAdd = 20

// CartHandler manages the per-user cart.
type CartHandler struct {
	db *gorm.DB
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(db *gorm.DB) *CartHandler {
	return &CartHandler{db: db}
}

// GetCart returns the cart as a live view: product name, price, image and
// availability are current values, and the total is computed from current
// prices, unlike a placed order.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var cart models.Cart
	err := h.db.Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
				"items": []fiber.Map{},
				"total": 0,
			}})
		}
		return err
	}

	items := make([]fiber.Map, 0, len(cart.Items))
	var total int64
	for _, item := range cart.Items {
		entry := fiber.Map{
			"id":         item.ID,
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
		}
		if item.Product != nil {
			entry["name"] = item.Product.Name
			entry["price"] = item.Product.Price
			entry["image_url"] = item.Product.ImageURL
			entry["is_available"] = item.Product.IsAvailable
			total += item.Product.Price * int64(item.Quantity)
		}
		items = append(items, entry)
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"items": items,
		"total": total,
	}})
}

type addCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// AddItem adds a product to the cart, merging into an existing line via
// an atomic insert-or-increment so a tight race never produces two rows
// for the same product.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req addCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}
	if req.Quantity < 1 || req.Quantity > maxQuantityPerAdd {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must be between 1 and 20")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}
	if !product.IsAvailable {
		return fiber.NewError(fiber.StatusBadRequest, "product is currently unavailable")
	}

	// Lazily create the cart; the unique index on user_id plus DoNothing
	// keeps a racing double-add from creating two carts.
	if err := h.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Cart{UserID: userID}).Error; err != nil {
		return err
	}
	var cart models.Cart
	if err := h.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return err
	}

	item := models.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  req.Quantity,
	}
	if err := h.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", req.Quantity),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "added to cart",
	})
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem overwrites a line's quantity; zero removes the line. The
// item must belong to the caller's cart.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Quantity < 0 || req.Quantity > maxQuantityPerAdd {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must be between 0 and 20")
	}

	var item models.CartItem
	if err := h.db.Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "cart item not found")
		}
		return err
	}

	if req.Quantity == 0 {
		if err := h.db.Delete(&models.CartItem{}, "id = ?", item.ID).Error; err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "message": "item removed"})
	}

	if err := h.db.Model(&models.CartItem{}).
		Where("id = ?", item.ID).
		Update("quantity", req.Quantity).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "quantity updated"})
}

// ClearCart removes every line; clearing a non-existent cart is a no-op.
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var cart models.Cart
	if err := h.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"success": true, "message": "cart cleared"})
		}
		return err
	}

	if err := h.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "cart cleared"})
}
