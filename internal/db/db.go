package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PoolOptions tunes the PostgreSQL connection pool.
type PoolOptions struct {
	MaxConns int32
	MinConns int32
}

// InitDB initializes the PostgreSQL connection pool
func InitDB(ctx context.Context, connString string, opts PoolOptions, log zerolog.Logger) (*pgxpool.Pool, error) {
	if connString == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	config.MaxConns = 10
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	config.MinConns = opts.MinConns
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Info().Int32("max_conns", config.MaxConns).Msg("connected to PostgreSQL")
	return pool, nil
}
