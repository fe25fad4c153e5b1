package repository

import (
	"context"

	"freee-deals/internal/domain/entity"
)

type APILogRepository interface {
	Save(ctx context.Context, log *entity.APILog) error
	// Recent returns the newest logs first
	Recent(ctx context.Context, limit int) ([]entity.APILog, error)
}
