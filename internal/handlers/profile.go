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

// lockUser takes a row lock on the owning user so concurrent address
// mutations for the same user serialize. The count/clear/insert steps
// below are read-then-write; without this lock two racing first-address
// creates would both see zero rows and both insert a default.
func lockUser(tx *gorm.DB, userID uuid.UUID) error {
	var owner models.User
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&owner, "id = ?", userID).Error
}

// ProfileHandler manages user profile and address endpoints.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// GetProfile returns the authenticated user profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":             user.ID,
			"phone":          user.Phone,
			"name":           user.Name,
			"role":           user.Role,
			"loyalty_points": user.LoyaltyPoints,
			"created_at":     user.CreatedAt,
		},
	})
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

// UpdateProfile updates user profile fields. Phone is immutable.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	if err := h.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"name": req.Name, "updated_at": time.Now()}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "profile updated"})
}

// Address endpoints

// ListAddresses returns the caller's addresses, oldest first.
func (h *ProfileHandler) ListAddresses(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var addresses []models.Address
	if err := h.db.Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&addresses).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": addresses})
}

type createAddressRequest struct {
	Label     string `json:"label"`
	Line      string `json:"line"`
	Details   string `json:"details"`
	IsDefault bool   `json:"is_default"`
}

// CreateAddress adds an address. The first address is forced default, and
// the capacity check, sibling-flag clearing and insert run in one
// transaction so no interleaving leaves two defaults or a sixth row.
func (h *ProfileHandler) CreateAddress(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createAddressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Line == "" {
		return fiber.NewError(fiber.StatusBadRequest, "address line is required")
	}

	var address models.Address
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Address{}).
			Where("user_id = ?", userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= models.MaxAddressesPerUser {
			return fiber.NewError(fiber.StatusBadRequest, "address limit reached")
		}

		isDefault := req.IsDefault || count == 0
		if isDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}

		address = models.Address{
			UserID:    userID,
			Label:     req.Label,
			Line:      req.Line,
			Details:   req.Details,
			IsDefault: isDefault,
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": address})
}

type updateAddressRequest struct {
	Label     *string `json:"label"`
	Line      *string `json:"line"`
	Details   *string `json:"details"`
	IsDefault *bool   `json:"is_default"`
}

// UpdateAddress updates one of the caller's addresses.
func (h *ProfileHandler) UpdateAddress(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	addrID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateAddressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Label != nil {
		updates["label"] = *req.Label
	}
	if req.Line != nil {
		updates["line"] = *req.Line
	}
	if req.Details != nil {
		updates["details"] = *req.Details
	}
	if req.IsDefault != nil {
		updates["is_default"] = *req.IsDefault
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}
	updates["updated_at"] = time.Now()

	return h.db.Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}

		var address models.Address
		if err := tx.Where("id = ? AND user_id = ?", addrID, userID).
			First(&address).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "address not found")
			}
			return err
		}

		if req.IsDefault != nil && *req.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ? AND id != ?", userID, address.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Address{}).
			Where("id = ?", address.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		return c.JSON(fiber.Map{"success": true, "message": "address updated"})
	})
}

// DeleteAddress removes one of the caller's addresses. Deleting the
// default promotes the oldest remaining address.
func (h *ProfileHandler) DeleteAddress(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	addrID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	return h.db.Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}

		var address models.Address
		if err := tx.Where("id = ? AND user_id = ?", addrID, userID).
			First(&address).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "address not found")
			}
			return err
		}

		if err := tx.Delete(&models.Address{}, "id = ?", address.ID).Error; err != nil {
			return err
		}

		if address.IsDefault {
			var oldest models.Address
			err := tx.Where("user_id = ?", userID).
				Order("created_at asc").
				First(&oldest).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err == nil {
				if err := tx.Model(&models.Address{}).
					Where("id = ?", oldest.ID).
					Update("is_default", true).Error; err != nil {
					return err
				}
			}
		}

		return c.JSON(fiber.Map{"success": true, "message": "address deleted"})
	})
}
