package moviedb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moviemania/movie-mania-backend/internal/db"
	"github.com/moviemania/movie-mania-backend/internal/platform/logger"
)

// Connect opens a fresh connection pool for one query turn. The caller closes
// it when the turn's SQL work is done; pools are not held across turns.
func Connect(ctx context.Context, log *logger.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, db.ResolveDSNFromEnv())
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Debug("Database connection established")
	return pool, nil
}
