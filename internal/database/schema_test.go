package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationFilesExist(t *testing.T) {
	migrationsDir := "../../migrations"

	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	expectedMigrations := []string{
		"00001_create_users_table.sql",
		"00002_create_refresh_tokens_table.sql",
		"00003_create_contacts_table.sql",
		"00004_create_lookup_tables.sql",
		"00005_create_products_table.sql",
		"00006_create_variants_table.sql",
		"00007_create_carts_table.sql",
		"00008_create_discount_offers_table.sql",
		"00009_create_coupons_table.sql",
		"00010_create_payment_terms_table.sql",
		"00011_create_orders_table.sql",
		"00012_create_order_items_table.sql",
		"00013_create_purchase_orders_table.sql",
		"00014_create_vendor_bills_table.sql",
		"00015_create_customer_invoices_table.sql",
		"00016_create_payments_table.sql",
		"00017_create_system_settings_table.sql",
		"00018_create_inventory_ledger_table.sql",
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	migrationsDir := "../../migrations"

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", file.Name(), err)
			continue
		}

		contentStr := string(content)

		if !strings.Contains(contentStr, "-- +goose Up") {
			t.Errorf("Migration file %s missing '-- +goose Up' directive", file.Name())
		}

		if !strings.Contains(contentStr, "-- +goose Down") {
			t.Errorf("Migration file %s missing '-- +goose Down' directive", file.Name())
		}

		if !strings.Contains(contentStr, "-- +goose StatementBegin") {
			t.Errorf("Migration file %s missing '-- +goose StatementBegin' directive", file.Name())
		}

		if !strings.Contains(contentStr, "-- +goose StatementEnd") {
			t.Errorf("Migration file %s missing '-- +goose StatementEnd' directive", file.Name())
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	migrationsDir := "../../migrations"

	expectedTables := map[string]string{
		"users":             "00001_create_users_table.sql",
		"refresh_tokens":    "00002_create_refresh_tokens_table.sql",
		"contacts":          "00003_create_contacts_table.sql",
		"categories":        "00004_create_lookup_tables.sql",
		"products":          "00005_create_products_table.sql",
		"variants":          "00006_create_variants_table.sql",
		"carts":             "00007_create_carts_table.sql",
		"discount_offers":   "00008_create_discount_offers_table.sql",
		"coupons":           "00009_create_coupons_table.sql",
		"payment_terms":     "00010_create_payment_terms_table.sql",
		"orders":            "00011_create_orders_table.sql",
		"order_items":       "00012_create_order_items_table.sql",
		"purchase_orders":   "00013_create_purchase_orders_table.sql",
		"vendor_bills":      "00014_create_vendor_bills_table.sql",
		"customer_invoices": "00015_create_customer_invoices_table.sql",
		"payments":          "00016_create_payments_table.sql",
		"system_settings":   "00017_create_system_settings_table.sql",
		"inventory_ledger":  "00018_create_inventory_ledger_table.sql",
	}

	for tableName, migrationFile := range expectedTables {
		path := filepath.Join(migrationsDir, migrationFile)
		content, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", migrationFile, err)
			continue
		}

		contentStr := string(content)

		createTableStmt := "CREATE TABLE IF NOT EXISTS " + tableName
		if !strings.Contains(contentStr, createTableStmt) {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}

		dropTableStmt := "DROP TABLE IF EXISTS " + tableName
		if !strings.Contains(contentStr, dropTableStmt) {
			t.Errorf("Migration file %s does not drop table %s in down section", migrationFile, tableName)
		}
	}
}

func TestVariantsTableEnforcesUniqueSKUAndNonNegativeStock(t *testing.T) {
	migrationsDir := "../../migrations"
	path := filepath.Join(migrationsDir, "00006_create_variants_table.sql")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read variants migration: %v", err)
	}

	contentStr := string(content)

	if !strings.Contains(contentStr, "sku VARCHAR(100) NOT NULL UNIQUE") {
		t.Error("Variants table missing catalog-wide unique constraint on sku")
	}

	if !strings.Contains(contentStr, "CHECK (stock >= 0)") {
		t.Error("Variants table missing non-negative stock check")
	}
}

func TestSystemSettingsTableIsSingleton(t *testing.T) {
	migrationsDir := "../../migrations"
	path := filepath.Join(migrationsDir, "00017_create_system_settings_table.sql")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read system settings migration: %v", err)
	}

	contentStr := string(content)

	// The primary key is a boolean pinned to TRUE, so a second row is
	// impossible at the schema level.
	if !strings.Contains(contentStr, "singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton)") {
		t.Error("System settings table missing singleton constraint")
	}

	if !strings.Contains(contentStr, "INSERT INTO system_settings") {
		t.Error("System settings migration missing default row seed")
	}
}

func TestCouponsTableHasStatusConstraint(t *testing.T) {
	migrationsDir := "../../migrations"
	path := filepath.Join(migrationsDir, "00009_create_coupons_table.sql")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read coupons migration: %v", err)
	}

	contentStr := string(content)

	for _, status := range []string{"unused", "used"} {
		if !strings.Contains(contentStr, status) {
			t.Errorf("Coupons table status constraint missing value: %s", status)
		}
	}

	if !strings.Contains(contentStr, "code VARCHAR(50) NOT NULL UNIQUE") {
		t.Error("Coupons table missing unique constraint on code")
	}
}

func TestCartItemsTableHasUniqueConstraint(t *testing.T) {
	migrationsDir := "../../migrations"
	path := filepath.Join(migrationsDir, "00007_create_carts_table.sql")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read carts migration: %v", err)
	}

	contentStr := string(content)

	if !strings.Contains(contentStr, "UNIQUE (cart_id, sku)") {
		t.Error("Cart items table missing unique constraint on (cart_id, sku)")
	}

	if !strings.Contains(contentStr, "user_id UUID NOT NULL UNIQUE") {
		t.Error("Carts table missing one-cart-per-user constraint")
	}
}
