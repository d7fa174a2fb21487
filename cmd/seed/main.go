// Package main provides a CLI tool for seeding the database with the
// chart of accounts and initial catalog data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"atithi/internal/core/id"
	"atithi/internal/domain/accounting"
	"atithi/internal/infrastructure/storage/postgres"
	"atithi/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedChartOfAccounts(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed chart of accounts", "error", err)
	}

	if err := seedLocations(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed locations", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// seedChartOfAccounts inserts the account groups and the default
// ledgers. Idempotent: existing codes are left untouched.
func seedChartOfAccounts(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	groups := []struct {
		code  string
		name  string
		aType accounting.AccountType
	}{
		{"ASSETS", "Assets", accounting.TypeAsset},
		{"LIABILITIES", "Liabilities", accounting.TypeLiability},
		{"INCOME", "Income", accounting.TypeIncome},
		{"EXPENSES", "Expenses", accounting.TypeExpense},
	}

	groupIDs := make(map[accounting.AccountType]id.ID, len(groups))

	for _, g := range groups {
		gid, err := upsertByCode(ctx, pool, `
			INSERT INTO acc_account_groups (id, code, name, is_folder, account_type, version, deletion_mark, attributes)
			VALUES ($1, $2, $3, true, $4, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, "acc_account_groups", g.code, g.name, string(g.aType))
		if err != nil {
			return fmt.Errorf("seed account group %s: %w", g.code, err)
		}
		groupIDs[g.aType] = gid
	}

	for _, def := range accounting.DefaultChart() {
		groupID := groupIDs[def.Type]
		_, err := upsertByCode(ctx, pool, `
			INSERT INTO acc_ledgers (id, code, name, group_id, account_type, version, deletion_mark, attributes)
			VALUES ($1, $2, $3, $5, $4, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, "acc_ledgers", def.Code, def.Name, string(def.Type), groupID)
		if err != nil {
			return fmt.Errorf("seed ledger %s: %w", def.Code, err)
		}
	}

	log.Infow("chart of accounts seeded", "ledgers", len(accounting.DefaultChart()))
	return nil
}

// seedLocations inserts the storage topology every resort starts with.
func seedLocations(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	locations := []struct {
		code  string
		name  string
		lType string
	}{
		{"CW-001", "Central Warehouse", "central_warehouse"},
		{"LQ-001", "Laundry Queue", "laundry_queue"},
	}

	for _, l := range locations {
		_, err := upsertByCode(ctx, pool, `
			INSERT INTO cat_locations (id, code, name, type, version, deletion_mark, attributes)
			VALUES ($1, $2, $3, $4, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, "cat_locations", l.code, l.name, l.lType)
		if err != nil {
			return fmt.Errorf("seed location %s: %w", l.code, err)
		}
	}

	log.Infow("base locations seeded", "count", len(locations))
	return nil
}

// seedDemoData inserts a small working catalog for local development.
func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo data...")

	// Demo locations beyond the base topology
	demoLocations := []struct {
		code  string
		name  string
		lType string
	}{
		{"KT-001", "Main Kitchen", "kitchen"},
		{"BS-001", "Beach Store", "branch_store"},
		{"RM-101", "Room 101", "guest_room"},
		{"RM-102", "Room 102", "guest_room"},
	}
	for _, l := range demoLocations {
		if _, err := upsertByCode(ctx, pool, `
			INSERT INTO cat_locations (id, code, name, type, version, deletion_mark, attributes)
			VALUES ($1, $2, $3, $4, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, "cat_locations", l.code, l.name, l.lType); err != nil {
			log.Warnw("failed to seed location", "code", l.code, "error", err)
		}
	}

	// Categories
	categories := []struct {
		code           string
		name           string
		classification string
		trackLaundry   bool
	}{
		{"CAT-FOOD", "Food & Beverages", "consumable", false},
		{"CAT-TOIL", "Toiletries", "consumable", false},
		{"CAT-LINEN", "Linen", "asset", true},
		{"CAT-SPORT", "Sports Equipment", "rentable", false},
		{"CAT-FURN", "Furniture", "asset", false},
	}

	categoryIDs := make(map[string]id.ID, len(categories))
	for _, c := range categories {
		cid, err := upsertByCode(ctx, pool, `
			INSERT INTO cat_categories (id, code, name, classification, track_laundry, version, deletion_mark, attributes)
			VALUES ($1, $2, $3, $4, $5, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, "cat_categories", c.code, c.name, c.classification, c.trackLaundry)
		if err != nil {
			log.Warnw("failed to seed category", "code", c.code, "error", err)
			continue
		}
		categoryIDs[c.code] = cid
	}

	// Items
	items := []struct {
		code         string
		name         string
		category     string
		unit         string
		unitCost     string
		gstRate      string
		sellable     bool
		perishable   bool
		isFixedAsset bool
		trackLaundry bool
	}{
		{"ITM-WATER", "Mineral Water 1L", "CAT-FOOD", "bottle", "18.0000", "12", true, true, false, false},
		{"ITM-SOAP", "Bath Soap", "CAT-TOIL", "pcs", "22.5000", "18", false, false, false, false},
		{"ITM-TOWEL", "Bath Towel", "CAT-LINEN", "pcs", "450.0000", "5", false, false, true, true},
		{"ITM-SHEET", "Bed Sheet", "CAT-LINEN", "pcs", "650.0000", "5", false, false, true, true},
		{"ITM-KAYAK", "Kayak", "CAT-SPORT", "pcs", "18000.0000", "18", false, false, true, false},
	}

	for _, it := range items {
		catID, ok := categoryIDs[it.category]
		if !ok {
			continue
		}
		if _, err := upsertByCode(ctx, pool, `
			INSERT INTO cat_items (
				id, code, name, category_id, unit, unit_cost, gst_rate,
				complimentary_limit, sellable, perishable, is_fixed_asset, track_laundry,
				current_stock, version, deletion_mark, attributes
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10, $11, 0, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, "cat_items", it.code, it.name, catID, it.unit, it.unitCost, it.gstRate,
			it.sellable, it.perishable, it.isFixedAsset, it.trackLaundry); err != nil {
			log.Warnw("failed to seed item", "code", it.code, "error", err)
		}
	}

	// Vendors
	vendors := []struct {
		code  string
		name  string
		gstin string
		state string
	}{
		{"VND-001", "Kerala Provisions Co", "32AAAAA0000A1Z5", "Kerala"},
		{"VND-002", "Chennai Linen Mills", "33BBBBB0000B1Z4", "Tamil Nadu"},
	}

	for _, v := range vendors {
		if _, err := upsertByCode(ctx, pool, `
			INSERT INTO cat_vendors (id, code, name, gstin, state, version, deletion_mark, attributes)
			VALUES ($1, $2, $3, $4, $5, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, "cat_vendors", v.code, v.name, v.gstin, v.state); err != nil {
			log.Warnw("failed to seed vendor", "code", v.code, "error", err)
		}
	}

	log.Info("demo data seeded successfully")
	return nil
}

// upsertByCode runs the insert with a fresh UUID as $1 and the code as
// $2, then resolves the row id whether or not the insert won.
func upsertByCode(ctx context.Context, pool *postgres.Pool, insertSQL, table, code string, rest ...any) (id.ID, error) {
	rowID := id.New()
	args := append([]any{rowID, code}, rest...)

	tag, err := pool.Pool.Exec(ctx, insertSQL, args...)
	if err != nil {
		return id.Nil(), err
	}
	if tag.RowsAffected() > 0 {
		return rowID, nil
	}

	err = pool.Pool.QueryRow(ctx,
		"SELECT id FROM "+table+" WHERE code = $1 AND deletion_mark = FALSE",
		code,
	).Scan(&rowID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return id.Nil(), fmt.Errorf("row %s missing after conflict", code)
		}
		return id.Nil(), err
	}

	return rowID, nil
}
