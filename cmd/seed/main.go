// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"mercatus/internal/core/id"
	"mercatus/internal/infrastructure/storage/postgres"
	"mercatus/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect to database
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

	// Seed admin user
	if _, err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	// Seed demo data if requested
	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (id.ID, error) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@mercatus.io"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	// Check if admin already exists
	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1 AND NOT deletion_mark`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return existingID, nil
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return id.Nil(), fmt.Errorf("check admin exists: %w", err)
	}

	// Hash password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return id.Nil(), fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	now := time.Now()

	// Create admin user
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name,
			is_active, is_admin, email_verified, email_verified_at, version
		)
		VALUES ($1, $2, $3, 'System', 'Admin', true, true, true, $4, 1)
	`, userID, adminEmail, string(passwordHash), now)
	if err != nil {
		return id.Nil(), fmt.Errorf("insert admin user: %w", err)
	}

	// Assign admin role
	var adminRoleID id.ID
	err = pool.Pool.QueryRow(ctx,
		`SELECT id FROM roles WHERE code = 'admin'`,
	).Scan(&adminRoleID)
	if err != nil {
		log.Warnw("admin role not found, skipping role assignment", "error", err)
	} else {
		_, err = pool.Pool.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id, granted_by)
			VALUES ($1, $2, NULL)
			ON CONFLICT (user_id, role_id) DO NOTHING
		`, userID, adminRoleID)
		if err != nil {
			log.Warnw("failed to assign admin role", "error", err)
		}
	}

	log.Infow("admin user created",
		"email", adminEmail,
		"user_id", userID,
	)

	return userID, nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo data...")

	// 1. Seed Organization
	// Documents need a default organization to resolve against.
	orgID := id.New()
	orgCode := "ORG-001"
	commandTag, err := pool.Pool.Exec(ctx, `
		INSERT INTO cat_organizations (id, code, name, full_name, inn, kpp, is_default, version, deletion_mark, attributes)
		VALUES ($1, $2, $3, $4, $5, $6, true, 1, false, '{}')
		ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
	`, orgID, orgCode, "ООО Ромашка", "Общество с ограниченной ответственностью 'Ромашка'", "7700000001", "770001001")
	if err != nil {
		log.Warnw("failed to seed organization", "error", err)
	}
	if err == nil && commandTag.RowsAffected() == 0 {
		err = pool.Pool.QueryRow(ctx, `
			SELECT id FROM cat_organizations WHERE code = $1 AND deletion_mark = FALSE
		`, orgCode).Scan(&orgID)
		if err != nil {
			log.Warnw("failed to fetch existing organization", "code", orgCode, "error", err)
		}
	}

	// 2. Seed Connections
	// Один кабинет на маркетплейс; комиссия — плановая, фактическую несут транзакции.
	connections := []struct {
		code        string
		name        string
		marketplace string
		commission  string
	}{
		{"CONN-WB", "WB Основной кабинет", "WB", "19.5"},
		{"CONN-OZON", "Ozon Основной кабинет", "Ozon", "22"},
	}

	connIDs := make(map[string]id.ID)

	for _, cn := range connections {
		connID := id.New()
		commission, convErr := decimal.NewFromString(cn.commission)
		if convErr != nil {
			log.Warnw("invalid commission percent", "connection", cn.code, "error", convErr)
			continue
		}

		commandTag, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_connections (id, code, name, marketplace, organization_id, planned_commission_percent, active, version, deletion_mark, attributes)
			VALUES ($1, $2, $3, $4, $5, $6, true, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, connID, cn.code, cn.name, cn.marketplace, orgID, commission)
		if err != nil {
			log.Warnw("failed to seed connection", "name", cn.name, "error", err)
			continue
		}
		if commandTag.RowsAffected() == 0 {
			err = pool.Pool.QueryRow(ctx, `
				SELECT id FROM cat_connections WHERE code = $1 AND deletion_mark = FALSE
			`, cn.code).Scan(&connID)
			if err != nil {
				log.Warnw("failed to fetch existing connection id", "code", cn.code, "error", err)
				continue
			}
		}

		connIDs[cn.marketplace] = connID
	}

	// 3. Seed Nomenclature
	// Последняя позиция — вариант, наследующий цену базовой позиции.
	products := []struct {
		name    string
		article string
		barcode string
		base    string // article of the base item, empty for standalone
	}{
		{"Футболка хлопковая белая", "TSH-WHT", "4600000000001", ""},
		{"Кружка керамическая 330мл", "MUG-330", "4600000000002", ""},
		{"Рюкзак городской 20л", "BPK-020", "4600000000003", ""},
		{"Футболка хлопковая белая XL", "TSH-WHT-XL", "4600000000004", "TSH-WHT"},
	}

	nomenclatureIDs := make(map[string]id.ID)

	for i, p := range products {
		prodID := id.New()
		code := fmt.Sprintf("NM-%05d", i+1)

		var baseID interface{}
		if p.base != "" {
			if bid, ok := nomenclatureIDs[p.base]; ok {
				baseID = bid
			}
		}

		commandTag, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_nomenclature (id, code, name, type, article, barcode, base_nomenclature_id, version, deletion_mark, attributes)
			VALUES ($1, $2, $3, 'goods', $4, $5, $6, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, prodID, code, p.name, p.article, p.barcode, baseID)
		if err != nil {
			log.Warnw("failed to seed product", "name", p.name, "error", err)
			continue
		}
		if commandTag.RowsAffected() == 0 {
			err = pool.Pool.QueryRow(ctx, `
				SELECT id FROM cat_nomenclature WHERE code = $1 AND deletion_mark = FALSE
			`, code).Scan(&prodID)
			if err != nil {
				log.Warnw("failed to fetch existing product id", "code", code, "error", err)
				continue
			}
		}

		nomenclatureIDs[p.article] = prodID
	}

	// 4. Seed Marketplace Products
	// Карточки WB сопоставлены с номенклатурой; вариант XL оставлен без
	// сопоставления, чтобы показать деградацию проведения.
	wbConnID, hasWB := connIDs["WB"]
	if hasWB {
		cards := []struct {
			sellerSKU string
			itemID    string
			barcode   string
			title     string
			article   string // matched nomenclature article, empty for unmatched
		}{
			{"WB-TSH-WHT", "100001", "4600000000001", "Футболка хлопковая белая", "TSH-WHT"},
			{"WB-MUG-330", "100002", "4600000000002", "Кружка керамическая 330мл", "MUG-330"},
			{"WB-TSH-XL", "100003", "4600000000004", "Футболка хлопковая белая XL", ""},
		}

		for i, card := range cards {
			cardID := id.New()
			code := fmt.Sprintf("MP-%05d", i+1)

			var nomID interface{}
			if card.article != "" {
				if nid, ok := nomenclatureIDs[card.article]; ok {
					nomID = nid
				}
			}

			_, err := pool.Pool.Exec(ctx, `
				INSERT INTO cat_marketplace_products (id, code, name, connection_id, marketplace, seller_sku, item_id, barcode, nomenclature_id, version, deletion_mark, attributes)
				VALUES ($1, $2, $3, $4, 'WB', $5, $6, $7, $8, 1, false, '{}')
				ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
			`, cardID, code, card.title, wbConnID, card.sellerSKU, card.itemID, card.barcode, nomID)
			if err != nil {
				log.Warnw("failed to seed marketplace product", "title", card.title, "error", err)
			}
		}
	}

	// 5. Seed dealer price history
	// Две точки на товар: проведение берёт действующую на дату продажи.
	priceRows := []struct {
		article string
		period  string
		price   string
	}{
		{"TSH-WHT", "2026-01-01", "450.00"},
		{"TSH-WHT", "2026-06-01", "520.00"},
		{"MUG-330", "2026-01-01", "180.00"},
		{"MUG-330", "2026-06-01", "195.50"},
		{"BPK-020", "2026-03-01", "1250.00"},
	}

	for _, row := range priceRows {
		nomID, ok := nomenclatureIDs[row.article]
		if !ok {
			continue
		}

		period, parseErr := time.Parse("2006-01-02", row.period)
		if parseErr != nil {
			log.Warnw("invalid price period", "article", row.article, "error", parseErr)
			continue
		}

		price, convErr := decimal.NewFromString(row.price)
		if convErr != nil {
			log.Warnw("invalid price value", "article", row.article, "error", convErr)
			continue
		}

		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO prj_nomenclature_prices (nomenclature_id, period, price, source, updated_at)
			VALUES ($1, $2, $3, 'ERP', NOW())
			ON CONFLICT (nomenclature_id, period) DO UPDATE SET
				price = EXCLUDED.price,
				source = EXCLUDED.source,
				updated_at = NOW()
		`, nomID, period, price)
		if err != nil {
			log.Warnw("failed to seed price record", "article", row.article, "error", err)
		}
	}

	log.Info("demo data seeded successfully")
	return nil
}
