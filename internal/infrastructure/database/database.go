package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"penneo-esign/internal/config"
)

type Database struct {
	DB     *sql.DB
	logger *zap.Logger
}

// NewDatabase connects to PostgreSQL when database.enabled is set.
// A disabled database yields a nil *Database.
func NewDatabase(cfg *config.Config, logger *zap.Logger) (*Database, error) {
	if !cfg.Database.Enabled {
		logger.Info("Database disabled, API calls will not be persisted")
		return nil, nil
	}

	// Build PostgreSQL connection string
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	db, err := sql.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connected successfully",
		zap.String("driver", cfg.Database.Driver),
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("dbname", cfg.Database.DBName),
	)

	database := &Database{
		DB:     db,
		logger: logger,
	}

	// Run migrations
	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return database, nil
}

func (d *Database) migrate() error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS api_logs (
		id BIGSERIAL PRIMARY KEY,
		endpoint TEXT NOT NULL,
		method VARCHAR(16) NOT NULL,
		request_body TEXT DEFAULT '',
		response_body TEXT DEFAULT '',
		status_code INTEGER NOT NULL DEFAULT 0,
		duration_ms BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := d.DB.Exec(createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create api_logs table: %w", err)
	}

	// PostgreSQL doesn't support IF NOT EXISTS for indexes in the same statement
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_api_logs_created_at ON api_logs(created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_api_logs_endpoint ON api_logs(endpoint);`,
	}
	for _, stmt := range indexes {
		if _, err := d.DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	d.logger.Info("Database migrations completed successfully")
	return nil
}

func (d *Database) Close() error {
	return d.DB.Close()
}

func registerHooks(lc fx.Lifecycle, db *Database) {
	if db == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			db.logger.Info("Closing database connection")
			return db.Close()
		},
	})
}

var Module = fx.Module("database",
	fx.Provide(NewDatabase),
	fx.Invoke(registerHooks),
)
