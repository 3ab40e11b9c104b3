package database

import (
	"database/sql"
	"log"
	"net/url"
	"strings"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/sofreh/internal/models"
)

// Connect initializes the database connection, runs migrations and seeds
// the order-number counter. The returned handle is the only reference;
// callers pass it down explicitly.
func Connect(dsn string) *gorm.DB {
	if err := ensureDatabase(dsn); err != nil {
		log.Fatalf("failed to ensure database: %v", err)
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := conn.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Printf("warning: failed to ensure uuid-ossp extension: %v", err)
	}

	if err := migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	if err := seedOrderCounter(conn); err != nil {
		log.Fatalf("failed to seed order counter: %v", err)
	}

	return conn
}

func migrate(conn *gorm.DB) error {
	migrations := []interface{}{
		&models.User{},
		&models.OtpCode{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderCounter{},
		&models.Payment{},
		&models.Address{},
		&models.FavoriteOrder{},
		&models.FavoriteOrderItem{},
		&models.Review{},
	}

	for _, migration := range migrations {
		if err := conn.AutoMigrate(migration); err != nil {
			return err
		}
	}

	// Backstop for the single-default invariant: even if application
	// locking is bypassed, the store refuses a second default per user.
	return conn.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_addresses_one_default
		ON addresses (user_id) WHERE is_default`).Error
}

// seedOrderCounter creates the single counter row if it does not exist,
// starting it at the floor or at the current maximum order number so
// numbers stay strictly increasing across redeploys.
func seedOrderCounter(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&models.OrderCounter{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	start := models.OrderNumberFloor
	var maxNumber int64
	if err := conn.Model(&models.Order{}).
		Select("COALESCE(MAX(order_number), 0)").
		Scan(&maxNumber).Error; err != nil {
		return err
	}
	if maxNumber > start {
		start = maxNumber
	}

	return conn.Create(&models.OrderCounter{ID: 1, Value: start}).Error
}

func ensureDatabase(dsn string) error {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return nil
	}

	parsed, err := url.Parse(dsn)
	if err != nil {
		return err
	}

	dbName := strings.TrimPrefix(parsed.Path, "/")
	if dbName == "" {
		return nil
	}

	parsed.Path = "/postgres"
	masterDSN := parsed.String()

	sqlDB, err := sql.Open("postgres", masterDSN)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return err
	}

	var exists bool
	if err := sqlDB.QueryRow("SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists); err != nil {
		return err
	}

	if exists {
		return nil
	}

	_, err = sqlDB.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName))
	return err
}
