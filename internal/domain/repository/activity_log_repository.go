package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

// ActivityLogRepository bitácora append-only. List devuelve lo más reciente primero.
type ActivityLogRepository interface {
	Append(ctx context.Context, e *entity.ActivityLog) error
	List(ctx context.Context, limit int) ([]entity.ActivityLog, error)
}
