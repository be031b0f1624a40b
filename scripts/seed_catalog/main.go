package main

import (
	"context"
	"fmt"
	"os"

	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/jackc/pgx/v5"
)

// Seeds a development catalogue using the DB_* environment variables.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := config.NewLogger(cfg.Logger)
	ctx := context.Background()

	if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
		return err
	}

	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}
	defer conn.Close(ctx)

	products := []struct {
		id, name, price, discount, category string
	}{
		{"P001", "Teff Flour 5kg", "100.00", "0", "Pantry"},
		{"P002", "Clay Jebena", "50.00", "10", "Kitchen"},
		{"P003", "Berbere 500g", "12.00", "0", "Spices"},
		{"P004", "Mesob Basket", "480.00", "0", "Home"},
		{"P005", "Yirgacheffe Coffee 1kg", "35.00", "5", "Pantry"},
		{"P006", "Mitmita 250g", "9.50", "0", "Spices"},
		{"P007", "Netela Scarf", "65.00", "15", "Apparel"},
	}

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(`
			INSERT INTO products (id, name, price, discount_percent, category)
			VALUES ($1, $2, $3::numeric, $4::numeric, $5)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, price = EXCLUDED.price,
			    discount_percent = EXCLUDED.discount_percent, category = EXCLUDED.category`,
			p.id, p.name, p.price, p.discount, p.category)
	}

	if err := conn.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	logger.Info().Int("count", len(products)).Str("database", cfg.Database.Database).Msg("catalogue seeded")
	return nil
}
