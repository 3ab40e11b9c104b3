package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/sofreh/internal/middleware"
	"github.com/example/sofreh/internal/models"
	"github.com/example/sofreh/internal/services"
	"github.com/example/sofreh/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	db       *gorm.DB
	checkout *services.CheckoutService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, checkout *services.CheckoutService) *OrderHandler {
	return &OrderHandler{db: db, checkout: checkout}
}

type placeOrderRequest struct {
	Note      string `json:"note"`
	AddressID string `json:"address_id"`
}

// PlaceOrder converts the caller's cart into an order.
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req placeOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var addressID *uuid.UUID
	if req.AddressID != "" {
		parsed, err := uuid.Parse(req.AddressID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid address id")
		}
		addressID = &parsed
	}

	order, err := h.checkout.PlaceOrder(c.Context(), userID, req.Note, addressID)
	if err != nil {
		var unavailable *services.UnavailableProductError
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			return fiber.NewError(fiber.StatusBadRequest, "cart is empty")
		case errors.As(err, &unavailable):
			return fiber.NewError(fiber.StatusBadRequest, unavailable.Error())
		case errors.Is(err, services.ErrAddressNotFound):
			return fiber.NewError(fiber.StatusNotFound, "address not found")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":           order.ID,
			"order_number": order.OrderNumber,
			"status":       order.Status,
			"subtotal":     order.Subtotal,
			"tax":          order.Tax,
			"delivery_fee": order.DeliveryFee,
			"total_amount": order.TotalAmount,
		},
	})
}

// ListOrders returns the caller's orders newest-first. Admins see every
// order joined with items, payment and owner contact info.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	isAdmin := middleware.GetCurrentRole(c) == models.RoleAdmin

	countQuery := h.db.Model(&models.Order{})
	if !isAdmin {
		countQuery = countQuery.Where("user_id = ?", userID)
	}
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return err
	}

	query := h.db.Preload("Items.Product").
		Preload("Payment").
		Preload("Address")
	if isAdmin {
		query = query.Preload("User")
	} else {
		query = query.Where("user_id = ?", userID)
	}

	var orders []models.Order
	if err := query.Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order; customers only see their own.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	query := h.db.Preload("Items.Product").
		Preload("Payment").
		Preload("Address").
		Where("id = ?", orderID)
	if middleware.GetCurrentRole(c) != models.RoleAdmin {
		query = query.Where("user_id = ?", userID)
	} else {
		query = query.Preload("User")
	}

	var order models.Order
	if err := query.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type updateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// UpdateStatus overwrites an order's status. Any of the five values is
// accepted regardless of current state; only enum membership is checked.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if !req.Status.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid status")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if err := h.db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("status", req.Status).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "status updated"})
}
