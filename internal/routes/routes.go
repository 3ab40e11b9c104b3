package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/example/sofreh/internal/config"
	"github.com/example/sofreh/internal/handlers"
	"github.com/example/sofreh/internal/middleware"
	"github.com/example/sofreh/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, sms services.SMSSender) {
	checkout := services.NewCheckoutService(db)
	payments := services.NewPaymentService(db, cfg.PaymentGateway, cfg.PaymentSuccessURL, cfg.PaymentFailureURL)

	authHandler := handlers.NewAuthHandler(db, cfg, sms)
	cartHandler := handlers.NewCartHandler(db)
	orderHandler := handlers.NewOrderHandler(db, checkout)
	paymentHandler := handlers.NewPaymentHandler(payments)
	profileHandler := handlers.NewProfileHandler(db)
	favoriteHandler := handlers.NewFavoriteHandler(db)
	productHandler := handlers.NewProductHandler(db)
	reviewHandler := handlers.NewReviewHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	api := app.Group("/api")

	// Auth routes. The send endpoint additionally sits behind a
	// per-client sliding window so one IP cannot farm codes for many
	// phone numbers; the per-phone cap lives in the handler.
	auth := api.Group("/auth")
	auth.Post("/otp/send", limiter.New(limiter.Config{
		Max:               10,
		Expiration:        time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
	}), authHandler.SendOtp)
	auth.Post("/otp/verify", authHandler.VerifyOtp)

	// Public catalog
	api.Get("/products", productHandler.ListProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Get("/categories", productHandler.ListCategories)
	api.Get("/products/:id/reviews", reviewHandler.ListProductReviews)

	// Gateway-facing callback, no session
	api.Get("/payment/callback", paymentHandler.Callback)

	// Session-protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/auth/session", authHandler.GetSession)
	protected.Delete("/auth/session", authHandler.Logout)

	protected.Get("/cart", cartHandler.GetCart)
	protected.Post("/cart", cartHandler.AddItem)
	protected.Patch("/cart/items/:id", cartHandler.UpdateItem)
	protected.Delete("/cart", cartHandler.ClearCart)

	protected.Post("/orders", orderHandler.PlaceOrder)
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Patch("/orders/:id", middleware.RequireAdmin(), orderHandler.UpdateStatus)

	protected.Post("/payment/request", paymentHandler.RequestPayment)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Get("/addresses", profileHandler.ListAddresses)
	protected.Post("/addresses", profileHandler.CreateAddress)
	protected.Patch("/addresses/:id", profileHandler.UpdateAddress)
	protected.Delete("/addresses/:id", profileHandler.DeleteAddress)

	protected.Get("/favorites", favoriteHandler.ListFavorites)
	protected.Post("/favorites", favoriteHandler.CreateFavorite)
	protected.Delete("/favorites/:id", favoriteHandler.DeleteFavorite)
	protected.Post("/favorites/toggle", favoriteHandler.ToggleFavorite)

	protected.Post("/reviews", reviewHandler.CreateReview)

	// Admin routes
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg), middleware.RequireAdmin())

	admin.Post("/products", adminHandler.CreateProduct)
	admin.Patch("/products/:id", adminHandler.UpdateProduct)
	admin.Delete("/products/:id", adminHandler.DeleteProduct)

	admin.Post("/categories", adminHandler.CreateCategory)
	admin.Delete("/categories/:id", adminHandler.DeleteCategory)

	admin.Get("/users", adminHandler.ListUsers)
	admin.Patch("/users/:id", adminHandler.UpdateUser)

	admin.Get("/stats", adminHandler.Stats)
}
