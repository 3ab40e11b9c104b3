package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/sofreh/internal/models"
)

// ErrOrderNotPayable covers every precondition failure on a payment
// request: order missing, owned by someone else, not pending, or already
// carrying a payment. The cases are deliberately indistinguishable so the
// existence of other users' orders never leaks.
var ErrOrderNotPayable = errors.New("order not found")

// PaymentService creates payments and drives the authorization step. The
// current gateway is simulated: authorization always succeeds with a
// synthetic transaction id. A real gateway plugs in at the seam between
// creating the pending payment and settling it.
type PaymentService struct {
	db         *gorm.DB
	gateway    string
	successURL string
	failureURL string
}

// NewPaymentService constructs PaymentService.
func NewPaymentService(db *gorm.DB, gateway, successURL, failureURL string) *PaymentService {
	return &PaymentService{
		db:         db,
		gateway:    gateway,
		successURL: successURL,
		failureURL: failureURL,
	}
}

// RequestPayment creates the single payment for a pending order owned by
// the caller and runs the simulated authorization. Settling the payment
// and confirming the order happen in the same transaction: a successful
// payment on a still-pending order must never be observable.
func (s *PaymentService) RequestPayment(ctx context.Context, userID, orderID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Where("id = ? AND user_id = ? AND status = ?",
			orderID, userID, models.OrderPending).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotPayable
			}
			return err
		}

		var existing int64
		if err := tx.Model(&models.Payment{}).
			Where("order_id = ?", order.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrOrderNotPayable
		}

		payment = models.Payment{
			OrderID: order.ID,
			Amount:  order.TotalAmount,
			Status:  models.PaymentPending,
			Gateway: s.gateway,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		// Simulated authorization. A real gateway would return a redirect
		// target here and settle later through the callback.
		payment.TransactionID = uuid.NewString()
		payment.ReferenceID = fmt.Sprintf("ref-%d", order.OrderNumber)
		payment.Status = models.PaymentSuccess

		if err := tx.Model(&models.Payment{}).
			Where("id = ?", payment.ID).
			Updates(map[string]interface{}{
				"transaction_id": payment.TransactionID,
				"reference_id":   payment.ReferenceID,
				"status":         payment.Status,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("status", models.OrderConfirmed).Error
	})
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// HandleCallback settles a payment from a gateway redirect and returns
// the destination the client should be sent to. A callback for an already
// successful payment is a no-op redirect, not an error, so gateway
// retries stay harmless.
func (s *PaymentService) HandleCallback(ctx context.Context, transactionID string, gatewayOK bool) string {
	if transactionID == "" {
		return s.failureURL
	}

	redirect := s.failureURL
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Where("transaction_id = ?", transactionID).
			First(&payment).Error; err != nil {
			return err
		}

		if payment.Status == models.PaymentSuccess {
			redirect = s.SuccessRedirect(payment.ReferenceID)
			return nil
		}

		if !gatewayOK {
			return tx.Model(&models.Payment{}).
				Where("id = ?", payment.ID).
				Update("status", models.PaymentFailed).Error
		}

		if err := tx.Model(&models.Payment{}).
			Where("id = ?", payment.ID).
			Update("status", models.PaymentSuccess).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Order{}).
			Where("id = ?", payment.OrderID).
			Update("status", models.OrderConfirmed).Error; err != nil {
			return err
		}

		redirect = s.SuccessRedirect(payment.ReferenceID)
		return nil
	})
	if err != nil {
		return s.failureURL
	}

	return redirect
}

// SuccessRedirect is the destination a settled payment sends the client
// to, carrying the reference id.
func (s *PaymentService) SuccessRedirect(referenceID string) string {
	return fmt.Sprintf("%s?ref=%s", s.successURL, referenceID)
}
