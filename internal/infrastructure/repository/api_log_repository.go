package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"freee-deals/internal/domain/entity"
	"freee-deals/internal/domain/repository"
	"freee-deals/internal/infrastructure/database"
)

// ErrLogsDisabled is returned by Recent when no database is configured
var ErrLogsDisabled = errors.New("api log storage is disabled")

type apiLogRepository struct {
	db     *database.Database
	logger *zap.Logger
}

// NewAPILogRepository creates a new API log repository. db is nil when the
// database is disabled; saves are then dropped.
func NewAPILogRepository(db *database.Database, logger *zap.Logger) repository.APILogRepository {
	return &apiLogRepository{
		db:     db,
		logger: logger,
	}
}

// Save saves an API log entry to the database
func (r *apiLogRepository) Save(ctx context.Context, log *entity.APILog) error {
	if r.db == nil {
		return nil
	}

	query := `
		INSERT INTO api_logs (endpoint, method, request_body, response_body, status_code, duration_ms, company_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.DB.ExecContext(ctx, query,
		log.Endpoint,
		log.Method,
		log.RequestBody,
		log.ResponseBody,
		log.StatusCode,
		log.Duration,
		log.CompanyID,
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

// Recent returns the newest API logs first
func (r *apiLogRepository) Recent(ctx context.Context, limit int) ([]entity.APILog, error) {
	if r.db == nil {
		return nil, ErrLogsDisabled
	}

	query := `
		SELECT id, endpoint, method, request_body, response_body, status_code, duration_ms, company_id, created_at
		FROM api_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.db.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query API logs: %w", err)
	}
	defer rows.Close()

	logs := []entity.APILog{}
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
			&log.CompanyID,
			&log.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan API log: %w", err)
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}
