package db

import (
	"fmt"

	"github.com/router-for-me/storefront/internal/models"
	"gorm.io/gorm"
)

// Migrate runs database migrations for the current dialect.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errAutoMigrate := conn.AutoMigrate(
		&models.AdminUser{},
		&models.Product{},
		&models.ProductVariant{},
		&models.FaqItem{},
		&models.DiscordData{},
		&models.SupportTicket{},
		&models.SupportReply{},
		&models.Session{},
		&models.WebhookEvent{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}

	switch Dialect(conn) {
	case DialectPostgres, DialectSQLite:
		return ensureSingleDefaultVariantIndex(conn)
	case DialectMySQL:
		// No partial indexes; the catalog store keeps the invariant transactionally.
		return nil
	default:
		return fmt.Errorf("db: unsupported dialect: %s", Dialect(conn))
	}
}

// ensureSingleDefaultVariantIndex allows at most one default variant per product.
func ensureSingleDefaultVariantIndex(conn *gorm.DB) error {
	if errIndex := conn.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_product_variants_single_default
		ON product_variants (product_id) WHERE is_default
	`).Error; errIndex != nil {
		return fmt.Errorf("db: create default variant index: %w", errIndex)
	}
	return nil
}
