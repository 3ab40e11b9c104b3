package main

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/sofreh/internal/config"
	"github.com/example/sofreh/internal/database"
	"github.com/example/sofreh/internal/routes"
	"github.com/example/sofreh/internal/services"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName:      "Sofreh Backend",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	var sms services.SMSSender = services.LogSMSSender{}
	if cfg.SMSEnabled {
		// The provider integration slots in here; codes go to the log
		// until one is configured.
		log.Println("SMS_ENABLED is set but no provider is wired, falling back to log sender")
	}

	routes.Register(app, db, cfg, sms)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}

// errorHandler renders every error as the shared response envelope.
// Unexpected errors become opaque 500s so storage details never leak.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		log.Printf("unhandled error: %v", err)
	}

	return c.Status(code).JSON(fiber.Map{"success": false, "message": message})
}
