package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avolkov/profiledb/internal/common"
	"github.com/avolkov/profiledb/internal/server/models"
	"github.com/avolkov/profiledb/internal/server/repositories/repomanager"
)

// educationStatsLimit caps the education ranking, which has no caller-facing
// limit parameter.
const educationStatsLimit = 10

// AnalyticsService computes grouped counts and rankings over the active
// entity set. It is stateless: every call reads the current snapshot.
type AnalyticsService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewAnalyticsService(db *sql.DB, repos repomanager.RepositoryManager) *AnalyticsService {
	return &AnalyticsService{db: db, repos: repos}
}

func checkLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", common.ErrValidation, limit)
	}
	return nil
}

// TopCompanies ranks companies by active-person count, descending, ties
// broken by ascending company name.
func (s *AnalyticsService) TopCompanies(ctx context.Context, limit int) ([]models.GroupCount, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	return s.repos.Persons(s.db).TopCompanies(ctx, limit)
}

// TopLocations ranks locations by active-person count.
func (s *AnalyticsService) TopLocations(ctx context.Context, limit int) ([]models.GroupCount, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	return s.repos.Persons(s.db).TopLocations(ctx, limit)
}

// TopJobTitles ranks current job titles by active-person count.
func (s *AnalyticsService) TopJobTitles(ctx context.Context, limit int) ([]models.GroupCount, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	return s.repos.Persons(s.db).TopJobTitles(ctx, limit)
}

// EducationStats ranks education institutions across active persons.
func (s *AnalyticsService) EducationStats(ctx context.Context) ([]models.GroupCount, error) {
	return s.repos.Persons(s.db).EducationStats(ctx, educationStatsLimit)
}
