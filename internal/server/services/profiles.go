package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/avolkov/profiledb/internal/dbx"
	"github.com/avolkov/profiledb/internal/logging"
	"github.com/avolkov/profiledb/internal/server/identity"
	"github.com/avolkov/profiledb/internal/server/models"
	"github.com/avolkov/profiledb/internal/server/repositories/repomanager"
)

// ProfileService serves the read side: single profile lookup, search, change
// history and soft deletion. All reads observe committed state only.
type ProfileService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func NewProfileService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *ProfileService {
	return &ProfileService{
		db:     db,
		repos:  repos,
		logger: logger.With("module", "profiles"),
	}
}

// Get returns the person with the given profile URL, with experience and
// education lists attached, regardless of status. The person row and its
// child lists are read from one snapshot.
func (s *ProfileService) Get(ctx context.Context, rawKey string) (*models.Person, error) {
	key, err := identity.NormalizeKey(rawKey)
	if err != nil {
		return nil, err
	}

	var person *models.Person
	err = dbx.WithTx(ctx, s.db, dbx.ReadOnlySnapshot, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		person, err = s.repos.Persons(tx).GetWithChildren(ctx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return person, nil
}

// Search returns active persons matching the given optional filters: query is
// a case-insensitive substring on name, company and location likewise on
// their fields. Filters are AND-combined; no filters returns all active
// persons.
func (s *ProfileService) Search(ctx context.Context, query, company, location string) ([]*models.Person, error) {
	return s.repos.Persons(s.db).Search(ctx, query, company, location)
}

// History returns the audit trail for a profile key, newest first. When
// sinceDays is non-nil the result is limited to changes in the last N days,
// boundary inclusive. Deactivated persons keep their history.
func (s *ProfileService) History(ctx context.Context, rawKey string, sinceDays *int) ([]*models.ChangeRecord, error) {
	key, err := identity.NormalizeKey(rawKey)
	if err != nil {
		return nil, err
	}

	var since *time.Time
	if sinceDays != nil {
		t := timeNow().UTC().AddDate(0, 0, -*sinceDays)
		since = &t
	}
	return s.repos.Changelog(s.db).ListByKey(ctx, key, since)
}

// Deactivate flips the person to the deactivated state. The row and its
// children stay in place; only search and analytics stop seeing it.
func (s *ProfileService) Deactivate(ctx context.Context, rawKey string) error {
	key, err := identity.NormalizeKey(rawKey)
	if err != nil {
		return err
	}
	if err := s.repos.Persons(s.db).Deactivate(ctx, key); err != nil {
		return err
	}
	s.logger.Info(ctx, "profile deactivated", "key", key)
	return nil
}

// Stats returns whole-database counters, all taken from one snapshot so they
// are mutually consistent.
func (s *ProfileService) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats

	err := dbx.WithTx(ctx, s.db, dbx.ReadOnlySnapshot, func(ctx context.Context, tx dbx.DBTX) error {
		personRepo := s.repos.Persons(tx)

		total, active, err := personRepo.CountPersons(ctx)
		if err != nil {
			return err
		}
		experiences, err := personRepo.CountExperiences(ctx)
		if err != nil {
			return err
		}
		educations, err := personRepo.CountEducations(ctx)
		if err != nil {
			return err
		}
		changes, err := s.repos.Changelog(tx).Count(ctx)
		if err != nil {
			return err
		}

		stats = models.Stats{
			TotalPersons:       total,
			TotalExperiences:   experiences,
			TotalEducations:    educations,
			TotalChangeRecords: changes,
			ActivePersons:      active,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
