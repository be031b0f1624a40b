package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL testcontainer, applies the embedded
// migrations and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping PostgreSQL container test in short mode")
	}

	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	// Get connection string
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.Migrate(connStr, zerolog.Nop()))

	// Create connection pool
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	// Cleanup function
	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedProducts inserts test products into the database.
func seedProducts(t *testing.T, pool *pgxpool.Pool, products []model.Product) {
	ctx := context.Background()

	query := `
		INSERT INTO products (id, name, price, discount_percent, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, p := range products {
		_, err := pool.Exec(ctx, query, p.ID, p.Name, p.Price, p.DiscountPercent, p.Category, p.CreatedAt)
		require.NoError(t, err)
	}
}
