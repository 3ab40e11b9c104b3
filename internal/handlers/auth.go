package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/sofreh/internal/config"
	"github.com/example/sofreh/internal/middleware"
	"github.com/example/sofreh/internal/models"
	"github.com/example/sofreh/internal/services"
	"github.com/example/sofreh/internal/utils"
)

const (
	otpRateWindow  = 10 * time.Minute
	otpRateMaxSent = 3
)

var (
	errNameRequired = errors.New("name required")
	errCodeConsumed = errors.New("code already consumed")
)

// AuthHandler bundles dependencies for OTP authentication endpoints.
type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
	sms services.SMSSender
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, sms services.SMSSender) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, sms: sms}
}

type sendOtpRequest struct {
	Phone string `json:"phone"`
}

// SendOtp issues a one-time login code for a phone number.
func (h *AuthHandler) SendOtp(c *fiber.Ctx) error {
	var req sendOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !utils.ValidPhone(req.Phone) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid phone number")
	}

	// At most three codes per phone in the trailing window, counted on
	// creation time. A failed dispatch still counts against the cap.
	var recent int64
	if err := h.db.Model(&models.OtpCode{}).
		Where("phone = ? AND created_at > ?", req.Phone, time.Now().Add(-otpRateWindow)).
		Count(&recent).Error; err != nil {
		return err
	}
	if recent >= otpRateMaxSent {
		return fiber.NewError(fiber.StatusTooManyRequests, "too many codes requested, try again later")
	}

	// New-vs-returning is decided before the code row exists.
	var user models.User
	isNewUser := false
	var userRef *models.User
	if err := h.db.Where("phone = ?", req.Phone).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		isNewUser = true
	} else {
		userRef = &user
	}

	code, err := utils.GenerateOtpCode()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate code")
	}

	otp := models.OtpCode{
		Phone:     req.Phone,
		Code:      code,
		ExpiresAt: time.Now().Add(models.OtpTTL),
	}
	if userRef != nil {
		otp.UserID = &userRef.ID
	}

	if err := h.db.Create(&otp).Error; err != nil {
		return err
	}

	if !h.sms.Send(req.Phone, code) {
		// The row stays; the caller may retry until the rate cap bites.
		return fiber.NewError(fiber.StatusBadGateway, "failed to send verification code")
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "verification code sent",
		"is_new_user": isNewUser,
	})
}

type verifyOtpRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
	Name  string `json:"name"`
}

// VerifyOtp checks a code, creates the user on first login and issues a
// session. New users without a name are rejected so the client can prompt
// and resubmit.
func (h *AuthHandler) VerifyOtp(c *fiber.Ctx) error {
	var req verifyOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !utils.ValidPhone(req.Phone) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid phone number")
	}

	var otp models.OtpCode
	if err := h.db.Where("phone = ? AND used = false AND expires_at > ?", req.Phone, time.Now()).
		Order("created_at desc").
		First(&otp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid or expired code")
		}
		return err
	}

	// Mismatch and absence are indistinguishable to the caller.
	if !utils.SecureCompare(req.Code, otp.Code) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid or expired code")
	}

	var user models.User
	err := h.db.Transaction(func(tx *gorm.DB) error {
		// Consume the matched code first; zero rows affected means a
		// concurrent verify got there before us.
		res := tx.Model(&models.OtpCode{}).
			Where("id = ? AND used = false", otp.ID).
			Update("used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errCodeConsumed
		}

		// Every outstanding code for the phone dies with this verify, so
		// an older still-unexpired code cannot be replayed.
		if err := tx.Model(&models.OtpCode{}).
			Where("phone = ? AND used = false", req.Phone).
			Update("used", true).Error; err != nil {
			return err
		}

		if err := tx.Where("phone = ?", req.Phone).First(&user).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if req.Name == "" {
				return errNameRequired
			}
			user = models.User{Phone: req.Phone, Name: req.Name, Role: models.RoleCustomer}
			return tx.Create(&user).Error
		}

		if user.Name == "" && req.Name != "" {
			user.Name = req.Name
			return tx.Model(&models.User{}).
				Where("id = ?", user.ID).
				Update("name", req.Name).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errNameRequired) {
			return fiber.NewError(fiber.StatusBadRequest, "name is required for new accounts")
		}
		if errors.Is(err, errCodeConsumed) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid or expired code")
		}
		return err
	}

	token, err := utils.GenerateToken(h.cfg.SessionSecret, user.ID, user.Role, h.cfg.SessionTTL)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to issue session")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(h.cfg.SessionTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": fiber.Map{
			"id":    user.ID,
			"phone": user.Phone,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

// GetSession returns the identity embedded in the current session token.
// It is a pure token check, cheap enough for heartbeat polling.
func (h *AuthHandler) GetSession(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user_id": userID,
			"role":    middleware.GetCurrentRole(c),
		},
	})
}

// Logout clears the session cookie. The token itself stays valid until
// its embedded expiry; there is no server-side revocation list.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{"success": true, "message": "logged out"})
}
