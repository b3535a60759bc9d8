package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the pgx pool the repositories and unit of work run on.
type DB struct {
	*pgxpool.Pool
}

// NewConnection opens and pings a pool for the given URL. Every connection
// runs in UTC so cooldown timestamps compare consistently.
func NewConnection(ctx context.Context, databaseURL string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	cfg.ConnConfig.RuntimeParams["timezone"] = "UTC"

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close releases the pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// ConstructDatabaseURL appends a database name to a server URL, keeping any
// query string intact. When the URL carries no sslmode it defaults to
// disable, which is what local and containerized postgres expect.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	server, query, _ := strings.Cut(strings.TrimRight(baseURL, "/"), "?")

	url := server + "/" + databaseName
	if !strings.Contains(query, "sslmode=") {
		if query != "" {
			query += "&"
		}
		query += "sslmode=disable"
	}
	if query != "" {
		url += "?" + query
	}

	return url
}
