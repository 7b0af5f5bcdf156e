package changelog

import (
	"context"
	"time"

	"github.com/avolkov/profiledb/internal/server/models"
)

// Repository is the append-only audit log of scalar field changes. There is
// deliberately no update or delete in this contract.
type Repository interface {
	Append(ctx context.Context, rec *models.ChangeRecord) error
	// ListByKey returns change records for the given profile key, newest
	// first. When since is non-nil only records with changed_at >= since are
	// returned (boundary inclusive).
	ListByKey(ctx context.Context, key string, since *time.Time) ([]*models.ChangeRecord, error)
	Count(ctx context.Context) (int64, error)
}
