package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/novendra27/ebook-store-sub000/models"
)

// OpenDB returns an isolated in-memory database with the full schema. The
// connection pool is capped at one so every query sees the same in-memory
// instance.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductDetail{},
		&models.CartLine{},
		&models.Invoice{},
		&models.InvoiceLine{},
		&models.BalanceEntry{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}
