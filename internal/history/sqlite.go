package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS published_news (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		link TEXT NOT NULL DEFAULT '',
		published_date TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_published_news_link ON published_news(link);
	`

// SQLiteStore keeps the history in a local SQLite database.
type SQLiteStore struct {
	sqlStore
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{sqlStore{
		db:        db,
		name:      "sqlite:" + path,
		insertSQL: `INSERT INTO published_news (title, link, published_date) VALUES (?, ?, ?)`,
	}}, nil
}
