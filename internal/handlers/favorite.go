package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/sofreh/internal/middleware"
	"github.com/example/sofreh/internal/models"
)

// FavoriteHandler manages quick-order bundles.
type FavoriteHandler struct {
	db *gorm.DB
}

// NewFavoriteHandler constructs FavoriteHandler.
func NewFavoriteHandler(db *gorm.DB) *FavoriteHandler {
	return &FavoriteHandler{db: db}
}

// ListFavorites returns the caller's bundles with product details.
func (h *FavoriteHandler) ListFavorites(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var favorites []models.FavoriteOrder
	if err := h.db.Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&favorites).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": favorites})
}

type favoriteItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type createFavoriteRequest struct {
	Name  string                `json:"name"`
	Items []favoriteItemRequest `json:"items"`
}

// CreateFavorite saves a named bundle. Every referenced product must
// exist and be available or the whole bundle is rejected.
func (h *FavoriteHandler) CreateFavorite(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createFavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || len(req.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "name and items are required")
	}

	var favorite models.FavoriteOrder
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := checkFavoriteCapacity(tx, userID); err != nil {
			return err
		}

		favorite = models.FavoriteOrder{UserID: userID, Name: req.Name}
		for _, item := range req.Items {
			productID, err := uuid.Parse(item.ProductID)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
			}
			if item.Quantity < 1 {
				return fiber.NewError(fiber.StatusBadRequest, "quantity must be at least 1")
			}

			product, err := availableProduct(tx, productID)
			if err != nil {
				return err
			}
			favorite.Items = append(favorite.Items, models.FavoriteOrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
			})
		}

		return tx.Create(&favorite).Error
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": favorite})
}

// DeleteFavorite removes one of the caller's bundles.
func (h *FavoriteHandler) DeleteFavorite(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	favID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	return h.db.Transaction(func(tx *gorm.DB) error {
		var favorite models.FavoriteOrder
		if err := tx.Where("id = ? AND user_id = ?", favID, userID).
			First(&favorite).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "favorite not found")
			}
			return err
		}

		if err := tx.Where("favorite_order_id = ?", favorite.ID).
			Delete(&models.FavoriteOrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.FavoriteOrder{}, "id = ?", favorite.ID).Error; err != nil {
			return err
		}

		return c.JSON(fiber.Map{"success": true, "message": "favorite deleted"})
	})
}

type toggleFavoriteRequest struct {
	ProductID string `json:"product_id"`
}

// ToggleFavorite flips a single-product favorite. A bundle holding
// exactly one line for the product counts as "favorited"; this is a
// heuristic match, so a named multi-item bundle later reduced to one line
// is treated the same as a toggled favorite.
func (h *FavoriteHandler) ToggleFavorite(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req toggleFavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	favorited := false
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var favorites []models.FavoriteOrder
		if err := tx.Preload("Items").
			Where("user_id = ?", userID).
			Find(&favorites).Error; err != nil {
			return err
		}

		if match := findSingleItemFavorite(favorites, productID); match != nil {
			if err := tx.Where("favorite_order_id = ?", match.ID).
				Delete(&models.FavoriteOrderItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.FavoriteOrder{}, "id = ?", match.ID).Error
		}

		if err := checkFavoriteCapacity(tx, userID); err != nil {
			return err
		}

		product, err := availableProduct(tx, productID)
		if err != nil {
			return err
		}

		favorited = true
		favorite := models.FavoriteOrder{
			UserID: userID,
			Name:   product.Name,
			Items: []models.FavoriteOrderItem{
				{ProductID: product.ID, Quantity: 1},
			},
		}
		return tx.Create(&favorite).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "favorited": favorited})
}

// findSingleItemFavorite returns the first bundle that consists of
// exactly one line for the given product.
func findSingleItemFavorite(favorites []models.FavoriteOrder, productID uuid.UUID) *models.FavoriteOrder {
	for i := range favorites {
		if len(favorites[i].Items) == 1 && favorites[i].Items[0].ProductID == productID {
			return &favorites[i]
		}
	}
	return nil
}

func checkFavoriteCapacity(tx *gorm.DB, userID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.FavoriteOrder{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count >= models.MaxFavoritesPerUser {
		return fiber.NewError(fiber.StatusBadRequest, "favorites limit reached")
	}
	return nil
}

func availableProduct(tx *gorm.DB, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := tx.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return nil, err
	}
	if !product.IsAvailable {
		return nil, fiber.NewError(fiber.StatusBadRequest, "product is currently unavailable")
	}
	return &product, nil
}
