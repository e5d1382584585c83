package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/moviemania/movie-mania-backend/internal/platform/envutil"
	"github.com/moviemania/movie-mania-backend/internal/platform/logger"
)

// PostgresService owns the gorm handle used for schema bootstrap and dataset
// seeding. The query pipeline does not go through gorm; it opens its own pgx
// pool per turn (see internal/moviedb).
type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

// ResolveDSNFromEnv builds the Postgres DSN shared by the gorm bootstrap and
// the per-turn pgx pool.
func ResolveDSNFromEnv() string {
	host := envutil.Str("POSTGRES_HOST", "localhost")
	port := envutil.Str("POSTGRES_PORT", "5432")
	user := envutil.Str("POSTGRES_USER", "postgres")
	password := envutil.Str("POSTGRES_PASSWORD", "")
	name := envutil.Str("POSTGRES_NAME", "movie_mania")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	dsn := ResolveDSNFromEnv()
	serviceLog.Info("Connecting to Postgres...")
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: gormDB, log: serviceLog}, nil
}

// AutoMigrateAll creates or updates the movie schema tables.
func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating movie schema...")
	err := s.db.AutoMigrate(
		&Movie{},
		&Actor{},
		&Genre{},
		&Language{},
	)
	if err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
