package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/deusflow/cryptonews/internal/logger"
	"github.com/deusflow/cryptonews/internal/retry"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS published_news (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		link TEXT NOT NULL DEFAULT '',
		published_date TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_published_news_link ON published_news(link);
	`

// PostgresStore keeps the history in PostgreSQL.
type PostgresStore struct {
	sqlStore
}

// NewPostgresStore connects, waits for the server to answer and creates the schema.
func NewPostgresStore(ctx context.Context, connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ping := retry.RetryConfig{MaxAttempts: 3, Delay: 2 * time.Second, Backoff: true}
	if err := retry.WithRetry(ctx, ping, func() error { return db.PingContext(ctx) }); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("PostgreSQL history store connected")
	return &PostgresStore{sqlStore{
		db:        db,
		name:      "postgres",
		insertSQL: `INSERT INTO published_news (title, link, published_date) VALUES ($1, $2, $3)`,
	}}, nil
}
