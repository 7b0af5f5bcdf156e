// Package export serializes the active profile set to JSON or CSV streams.
package export

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/avolkov/profiledb/internal/dbx"
	"github.com/avolkov/profiledb/internal/server/models"
	"github.com/avolkov/profiledb/internal/server/repositories/repomanager"
)

// Exporter streams the active profiles, with their experience and education
// children, to a writer.
type Exporter struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

// NewExporter constructs an Exporter over the given database and repositories.
func NewExporter(db *sql.DB, repos repomanager.RepositoryManager) *Exporter {
	return &Exporter{db: db, repos: repos}
}

// listSnapshot reads the active profiles and their children from one
// consistent snapshot.
func (e *Exporter) listSnapshot(ctx context.Context) ([]*models.Person, error) {
	var list []*models.Person
	err := dbx.WithTx(ctx, e.db, dbx.ReadOnlySnapshot, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		list, err = e.repos.Persons(tx).ListActiveWithChildren(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// WriteJSON writes the active profiles as an indented JSON array.
func (e *Exporter) WriteJSON(ctx context.Context, w io.Writer) error {
	list, err := e.listSnapshot(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

var csvHeader = []string{
	"id", "name", "location", "job_title", "company", "profile_url",
	"experience_count", "education_count", "first_seen_at", "last_seen_at", "scrape_count",
}

// WriteCSV writes one row per active profile. Child collections are reduced
// to counts so the output stays flat.
func (e *Exporter) WriteCSV(ctx context.Context, w io.Writer) error {
	list, err := e.listSnapshot(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	for _, p := range list {
		row := []string{
			p.ID, p.Name, p.Location, p.JobTitle, p.Company, p.ProfileURL,
			strconv.Itoa(len(p.Experiences)), strconv.Itoa(len(p.Educations)),
			p.FirstSeenAt.UTC().Format(time.RFC3339),
			p.LastSeenAt.UTC().Format(time.RFC3339),
			strconv.FormatInt(p.ScrapeCount, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}
