// Package services contains the server's business logic: atomic profile
// ingestion, read-side queries, and analytics over the stored entity set.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avolkov/profiledb/internal/common"
	"github.com/avolkov/profiledb/internal/dbx"
	"github.com/avolkov/profiledb/internal/keylock"
	"github.com/avolkov/profiledb/internal/logging"
	"github.com/avolkov/profiledb/internal/server/diff"
	"github.com/avolkov/profiledb/internal/server/identity"
	"github.com/avolkov/profiledb/internal/server/models"
	"github.com/avolkov/profiledb/internal/server/repositories/repomanager"
)

// Seams for tests.
var (
	timeNow = time.Now
	newID   = uuid.NewString
)

// IngestService is the ingestion coordinator: it resolves an incoming record
// to an existing person, detects scalar changes, applies them together with a
// full child-list replacement, and appends the audit trail, all as one
// transaction. Concurrent ingestions of the same key are serialized by a
// per-key lock; distinct keys proceed independently.
type IngestService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	locks  *keylock.KeyLock
	logger logging.Logger
}

func NewIngestService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *IngestService {
	return &IngestService{
		db:     db,
		repos:  repos,
		locks:  keylock.New(),
		logger: logger.With("module", "ingest"),
	}
}

// Ingest saves or updates a scraped record. It returns the stored person,
// whether it was newly created, and the scalar deltas that were applied.
// A failure at any step rolls the whole unit back; nothing partial is ever
// visible to readers.
func (s *IngestService) Ingest(ctx context.Context, rec *models.ProfileRecord, trackChanges bool) (*models.Person, bool, []models.Delta, error) {
	key, err := identity.NormalizeKey(rec.URL)
	if err != nil {
		return nil, false, nil, err
	}

	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	var (
		person  *models.Person
		created bool
		deltas  []models.Delta
	)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		personRepo := s.repos.Persons(tx)
		changeRepo := s.repos.Changelog(tx)

		now := timeNow().UTC()

		existing, err := personRepo.GetByKeyForUpdate(ctx, key)
		if errors.Is(err, common.ErrNotFound) {
			p := &models.Person{
				ID:          newID(),
				ProfileURL:  key,
				Name:        strings.TrimSpace(rec.Name),
				Location:    strings.TrimSpace(rec.Location),
				JobTitle:    strings.TrimSpace(rec.JobTitle),
				Company:     strings.TrimSpace(rec.Company),
				Summary:     strings.TrimSpace(rec.Summary),
				FirstSeenAt: now,
				LastSeenAt:  now,
				ScrapeCount: 1,
				Status:      models.StatusActive,
			}
			if err := personRepo.Create(ctx, p); err != nil {
				return err
			}
			if err := personRepo.ReplaceExperiences(ctx, p.ID, rec.Experiences); err != nil {
				return err
			}
			if err := personRepo.ReplaceEducations(ctx, p.ID, rec.Educations); err != nil {
				return err
			}
			person, created = p, true
			return nil
		}
		if err != nil {
			return err
		}

		deltas = diff.Scalars(existing, rec)
		diff.Apply(existing, deltas)
		existing.ScrapeCount++ // counts attempts, not distinct states
		existing.LastSeenAt = now

		if err := personRepo.UpdateScalars(ctx, existing); err != nil {
			return err
		}
		// A re-scrape is authoritative for point-in-time state: the child
		// lists are replaced wholesale, never merged.
		if err := personRepo.ReplaceExperiences(ctx, existing.ID, rec.Experiences); err != nil {
			return err
		}
		if err := personRepo.ReplaceEducations(ctx, existing.ID, rec.Educations); err != nil {
			return err
		}

		if trackChanges {
			for _, d := range deltas {
				entry := &models.ChangeRecord{
					ProfileURL: key,
					Field:      d.Field,
					OldValue:   d.Old,
					NewValue:   d.New,
					ChangedAt:  now,
				}
				if err := changeRepo.Append(ctx, entry); err != nil {
					return err
				}
			}
		}

		person = existing
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "ingest failed", "key", key, "error", err.Error())
		return nil, false, nil, err
	}

	s.logger.Info(ctx, "profile ingested", "key", key, "created", created, "changes", len(deltas))
	return person, created, deltas, nil
}
