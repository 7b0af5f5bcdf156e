package persons

import (
	"context"

	"github.com/avolkov/profiledb/internal/server/models"
)

// Repository is the storage contract for persons and their child
// experience/education sets.
type Repository interface {
	// GetByKey returns the person with the given normalized profile URL or
	// common.ErrNotFound.
	GetByKey(ctx context.Context, key string) (*models.Person, error)
	// GetByKeyForUpdate is GetByKey with a row lock, for use inside the
	// ingestion transaction.
	GetByKeyForUpdate(ctx context.Context, key string) (*models.Person, error)
	Create(ctx context.Context, p *models.Person) error
	// UpdateScalars persists the scalar fields plus last_seen_at and
	// scrape_count. The natural key and first_seen_at are never touched.
	UpdateScalars(ctx context.Context, p *models.Person) error
	ReplaceExperiences(ctx context.Context, personID string, items []models.Experience) error
	ReplaceEducations(ctx context.Context, personID string, items []models.Education) error

	GetWithChildren(ctx context.Context, key string) (*models.Person, error)
	// Search returns active persons matching the given case-insensitive
	// substring filters (AND-combined; empty filters match everything),
	// ordered by profile URL.
	Search(ctx context.Context, query, company, location string) ([]*models.Person, error)
	ListActiveWithChildren(ctx context.Context) ([]*models.Person, error)
	Deactivate(ctx context.Context, key string) error

	TopCompanies(ctx context.Context, limit int) ([]models.GroupCount, error)
	TopLocations(ctx context.Context, limit int) ([]models.GroupCount, error)
	TopJobTitles(ctx context.Context, limit int) ([]models.GroupCount, error)
	EducationStats(ctx context.Context, limit int) ([]models.GroupCount, error)
	CountPersons(ctx context.Context) (total, active int64, err error)
	CountExperiences(ctx context.Context) (int64, error)
	CountEducations(ctx context.Context) (int64, error)
}
