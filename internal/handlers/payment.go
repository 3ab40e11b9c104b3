package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/sofreh/internal/middleware"
	"github.com/example/sofreh/internal/services"
)

// PaymentHandler manages payment endpoints.
type PaymentHandler struct {
	payments *services.PaymentService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type requestPaymentRequest struct {
	OrderID string `json:"order_id"`
}

// RequestPayment creates and settles the payment for a pending order.
func (h *PaymentHandler) RequestPayment(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req requestPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	payment, err := h.payments.RequestPayment(c.Context(), userID, orderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotPayable) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"payment_id":     payment.ID,
			"status":         payment.Status,
			"amount":         payment.Amount,
			"transaction_id": payment.TransactionID,
			"reference_id":   payment.ReferenceID,
			"redirect_url":   h.payments.SuccessRedirect(payment.ReferenceID),
		},
	})
}

// Callback is the gateway-facing return endpoint. It always answers with
// a redirect, never an API error, since the gateway controls the query.
func (h *PaymentHandler) Callback(c *fiber.Ctx) error {
	transactionID := c.Query("transaction_id")
	gatewayOK := c.Query("status") == "OK"

	redirect := h.payments.HandleCallback(c.Context(), transactionID, gatewayOK)
	return c.Redirect(redirect, fiber.StatusFound)
}
