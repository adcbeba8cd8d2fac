package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open connects to the Postgres store behind the PETEX API.
// Bulk imports hold one connection for a long sequence of writes, so the
// pool stays small and recycles connections periodically.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open store: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("open store: verify postgres connection: %w", err)
	}

	return db, nil
}
