package infra

import (
	"fmt"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// GORM cannot express (partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Map SQLSTATE 23505 onto gorm.ErrDuplicatedKey so the write path can
		// turn a backstop-index hit into a duplicate conflict.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates the schema. Also used by integration tests
// against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.AccountRequest{},
		&model.Client{},
		&model.InventoryItem{},
		&model.SalesTransaction{},
		&model.TransactionStatusLog{},
		&model.WishlistEntry{},
		&model.Lead{},
		&model.Repair{},
		&model.RepairStatusLog{},
		&model.Notification{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Backstop for the duplicate detector: even if two writers slip past
		// the advisory lock, the database refuses the second same-day sale.
		// Rows the caller explicitly confirmed are exempt.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sales_same_day_unique') THEN
		    CREATE UNIQUE INDEX idx_sales_same_day_unique
		        ON sales_transactions (client_id, inventory_item_id, (DATE(sale_date)))
		        WHERE type = 'sale' AND confirmed_duplicate = false;
		  END IF;
		END $$`,
		// One credit per sale, enforced at the storage layer too.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_credit_original_unique') THEN
		    CREATE UNIQUE INDEX idx_credit_original_unique
		        ON sales_transactions (original_id)
		        WHERE type = 'credit';
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
