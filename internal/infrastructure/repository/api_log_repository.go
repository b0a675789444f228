package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"penneo-esign/internal/domain/entity"
	"penneo-esign/internal/infrastructure/database"
)

// MaxLogLimit caps the number of rows a log query returns
const MaxLogLimit = 200

// ErrLogsDisabled is returned by queries when no database is configured
var ErrLogsDisabled = errors.New("api log persistence is disabled")

// APILogRepository interface for API log operations
type APILogRepository interface {
	Save(ctx context.Context, log *entity.APILog) error
	FindAll(ctx context.Context, limit int) ([]*entity.APILog, error)
	// FindByEndpoint matches endpoint as a substring of the logged URL
	FindByEndpoint(ctx context.Context, endpoint string, limit int) ([]*entity.APILog, error)
}

type apiLogRepository struct {
	db     *database.Database
	logger *zap.Logger
}

// NewAPILogRepository creates a new API log repository. With a nil database
// Save discards logs and queries fail with ErrLogsDisabled.
func NewAPILogRepository(db *database.Database, logger *zap.Logger) APILogRepository {
	return &apiLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *apiLogRepository) enabled() bool {
	return r.db != nil && r.db.DB != nil
}

// Save saves an API log entry to the database
func (r *apiLogRepository) Save(ctx context.Context, log *entity.APILog) error {
	if !r.enabled() {
		return nil
	}

	query := `
		INSERT INTO api_logs (endpoint, method, request_body, response_body, status_code, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.DB.ExecContext(ctx, query,
		log.Endpoint,
		log.Method,
		log.RequestBody,
		log.ResponseBody,
		log.StatusCode,
		log.Duration,
		log.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to save API log",
			zap.String("endpoint", log.Endpoint),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save API log: %w", err)
	}

	return nil
}

func (r *apiLogRepository) FindAll(ctx context.Context, limit int) ([]*entity.APILog, error) {
	if !r.enabled() {
		return nil, ErrLogsDisabled
	}

	query := `
		SELECT id, endpoint, method, request_body, response_body, status_code, duration_ms, created_at
		FROM api_logs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.DB.QueryContext(ctx, query, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query API logs: %w", err)
	}
	return scanLogs(rows)
}

func (r *apiLogRepository) FindByEndpoint(ctx context.Context, endpoint string, limit int) ([]*entity.APILog, error) {
	if !r.enabled() {
		return nil, ErrLogsDisabled
	}

	query := `
		SELECT id, endpoint, method, request_body, response_body, status_code, duration_ms, created_at
		FROM api_logs
		WHERE endpoint LIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.DB.QueryContext(ctx, query, endpoint, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to search API logs: %w", err)
	}
	return scanLogs(rows)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > MaxLogLimit {
		return MaxLogLimit
	}
	return limit
}

func scanLogs(rows *sql.Rows) ([]*entity.APILog, error) {
	defer rows.Close()

	logs := []*entity.APILog{}
	for rows.Next() {
		var log entity.APILog
		if err := rows.Scan(
			&log.ID,
			&log.Endpoint,
			&log.Method,
			&log.RequestBody,
			&log.ResponseBody,
			&log.StatusCode,
			&log.Duration,
			&log.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan API log: %w", err)
		}
		logs = append(logs, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read API logs: %w", err)
	}
	return logs, nil
}
