package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Connect opens a Postgres pool and pings it within the given context.
func Connect(ctx context.Context, databaseURL string) (*sql.DB, error) {

	if databaseURL == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	// The catalog source issues one query per load.
	db.SetMaxOpenConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	err = db.PingContext(ctx)
	if err != nil {

		_ = db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}
