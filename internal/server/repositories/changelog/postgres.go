// Package changelog provides the PostgreSQL-backed append-only store of
// profile field changes.
package changelog

import (
	"context"
	"time"

	"github.com/avolkov/profiledb/internal/dbx"
	"github.com/avolkov/profiledb/internal/server/models"
)

// PostgresRepository implements the audit log over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, rec *models.ChangeRecord) error {
	query := `
		INSERT INTO profile_changes (profile_url, field, old_value, new_value, changed_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ProfileURL, rec.Field, rec.OldValue, rec.NewValue, rec.ChangedAt)
	if err != nil {
		return dbx.WrapError(err)
	}
	return nil
}

func (r *PostgresRepository) ListByKey(ctx context.Context, key string, since *time.Time) ([]*models.ChangeRecord, error) {
	query := `
		SELECT id, profile_url, field, old_value, new_value, changed_at
		FROM profile_changes WHERE profile_url = $1
	`
	args := []any{key}
	if since != nil {
		query += ` AND changed_at >= $2`
		args = append(args, *since)
	}
	query += ` ORDER BY changed_at DESC, id DESC;`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	var result []*models.ChangeRecord
	for rows.Next() {
		var rec models.ChangeRecord
		if err := rows.Scan(&rec.ID, &rec.ProfileURL, &rec.Field,
			&rec.OldValue, &rec.NewValue, &rec.ChangedAt); err != nil {
			return nil, err
		}
		result = append(result, &rec)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profile_changes;`).Scan(&n); err != nil {
		return 0, dbx.WrapError(err)
	}
	return n, nil
}
