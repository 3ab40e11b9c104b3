package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/sofreh/internal/models"
	"github.com/example/sofreh/internal/utils"
)

// AdminHandler manages catalog and user administration.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

type productRequest struct {
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Ingredients string `json:"ingredients"`
	IsAvailable *bool  `json:"is_available"`
	CategoryID  string `json:"category_id"`
	SortOrder   int    `json:"sort_order"`
}

// CreateProduct adds a catalog entry.
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Price < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "name and a non-negative price are required")
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid category id")
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	product := models.Product{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Ingredients: req.Ingredients,
		IsAvailable: available,
		CategoryID:  categoryID,
		SortOrder:   req.SortOrder,
	}
	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

type updateProductRequest struct {
	Name        *string `json:"name"`
	Price       *int64  `json:"price"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	Ingredients *string `json:"ingredients"`
	IsAvailable *bool   `json:"is_available"`
	CategoryID  *string `json:"category_id"`
	SortOrder   *int    `json:"sort_order"`
}

// UpdateProduct edits a catalog entry. Placed orders are unaffected since
// they carry their own price snapshots.
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "price must be non-negative")
		}
		updates["price"] = *req.Price
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Ingredients != nil {
		updates["ingredients"] = *req.Ingredients
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid category id")
		}
		updates["category_id"] = categoryID
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}
	updates["updated_at"] = time.Now()

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	if err := h.db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(updates).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "product updated"})
}

// DeleteProduct removes a product unless order history references it.
// Cart lines and favorite bundle lines for the product go with it: carts
// are live views and a favorite pointing at a gone product could never
// be ordered again. Bundles emptied by the cleanup are removed too.
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	return h.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "product not found")
			}
			return err
		}

		var referenced int64
		if err := tx.Model(&models.OrderItem{}).
			Where("product_id = ?", product.ID).
			Count(&referenced).Error; err != nil {
			return err
		}
		if referenced > 0 {
			return fiber.NewError(fiber.StatusConflict, "product is referenced by existing orders")
		}

		if err := tx.Where("product_id = ?", product.ID).
			Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		var bundleIDs []uuid.UUID
		if err := tx.Model(&models.FavoriteOrderItem{}).
			Where("product_id = ?", product.ID).
			Distinct().
			Pluck("favorite_order_id", &bundleIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).
			Delete(&models.FavoriteOrderItem{}).Error; err != nil {
			return err
		}
		if len(bundleIDs) > 0 {
			if err := tx.Where(`id IN ? AND NOT EXISTS (
				SELECT 1 FROM favorite_order_items
				WHERE favorite_order_items.favorite_order_id = favorite_orders.id)`, bundleIDs).
				Delete(&models.FavoriteOrder{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&models.Product{}, "id = ?", product.ID).Error; err != nil {
			return err
		}

		return c.JSON(fiber.Map{"success": true, "message": "product deleted"})
	})
}

type categoryRequest struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// CreateCategory adds a catalog category.
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	category := models.Category{Name: req.Name, SortOrder: req.SortOrder}
	if err := h.db.Create(&category).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": category})
}

// DeleteCategory removes a category; refused while products reference it.
func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}

	var products int64
	if err := h.db.Model(&models.Product{}).
		Where("category_id = ?", category.ID).
		Count(&products).Error; err != nil {
		return err
	}
	if products > 0 {
		return fiber.NewError(fiber.StatusConflict, "category still has products")
	}

	if err := h.db.Delete(&models.Category{}, "id = ?", category.ID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "category deleted"})
}

// ListUsers returns paginated users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := h.db.Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").
		Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type updateUserRequest struct {
	Role models.Role `json:"role"`
}

// UpdateUser changes a user's role.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if !req.Role.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid role")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if err := h.db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("role", req.Role).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "user updated"})
}

// Stats returns aggregate order statistics.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	var totalUsers int64
	if err := h.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalOrders int64
	if err := h.db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var statusCounts []statusCount
	if err := h.db.Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return err
	}

	ordersByStatus := make(map[string]int64)
	for _, sc := range statusCounts {
		ordersByStatus[sc.Status] = sc.Count
	}

	var totalRevenue int64
	if err := h.db.Model(&models.Order{}).
		Where("status != ?", models.OrderCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_users":      totalUsers,
			"total_orders":     totalOrders,
			"orders_by_status": ordersByStatus,
			"total_revenue":    totalRevenue,
		},
	})
}
