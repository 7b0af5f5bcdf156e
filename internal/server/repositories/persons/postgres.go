// Package persons provides the PostgreSQL-backed repository for person rows
// and their experience/education children.
package persons

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avolkov/profiledb/internal/common"
	"github.com/avolkov/profiledb/internal/dbx"
	"github.com/avolkov/profiledb/internal/server/models"
)

// PostgresRepository implements person storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const personColumns = `id, profile_url, name, location, job_title, company, summary,
		first_seen_at, last_seen_at, scrape_count, status`

func scanPerson(row interface{ Scan(dest ...any) error }) (*models.Person, error) {
	var p models.Person
	err := row.Scan(
		&p.ID, &p.ProfileURL, &p.Name, &p.Location, &p.JobTitle, &p.Company, &p.Summary,
		&p.FirstSeenAt, &p.LastSeenAt, &p.ScrapeCount, &p.Status,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) getByKey(ctx context.Context, key string, forUpdate bool) (*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE profile_url = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	p, err := scanPerson(r.db.QueryRowContext(ctx, query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: person %s", common.ErrNotFound, key)
	}
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	return p, nil
}

func (r *PostgresRepository) GetByKey(ctx context.Context, key string) (*models.Person, error) {
	return r.getByKey(ctx, key, false)
}

func (r *PostgresRepository) GetByKeyForUpdate(ctx context.Context, key string) (*models.Person, error) {
	return r.getByKey(ctx, key, true)
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Person) error {
	query := `
		INSERT INTO persons (id, profile_url, name, location, job_title, company, summary,
			first_seen_at, last_seen_at, scrape_count, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.ProfileURL, p.Name, p.Location, p.JobTitle, p.Company, p.Summary,
		p.FirstSeenAt, p.LastSeenAt, p.ScrapeCount, p.Status)
	if err != nil {
		return dbx.WrapError(err)
	}
	return nil
}

func (r *PostgresRepository) UpdateScalars(ctx context.Context, p *models.Person) error {
	query := `
		UPDATE persons
		SET name = $2, location = $3, job_title = $4, company = $5, summary = $6,
			last_seen_at = $7, scrape_count = $8
		WHERE profile_url = $1;
	`
	res, err := r.db.ExecContext(ctx, query,
		p.ProfileURL, p.Name, p.Location, p.JobTitle, p.Company, p.Summary,
		p.LastSeenAt, p.ScrapeCount)
	if err != nil {
		return dbx.WrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}

func (r *PostgresRepository) ReplaceExperiences(ctx context.Context, personID string, items []models.Experience) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM experiences WHERE person_id = $1;`, personID); err != nil {
		return dbx.WrapError(err)
	}
	query := `
		INSERT INTO experiences (person_id, title, company, location, from_date, to_date, duration, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, e := range items {
		if _, err := r.db.ExecContext(ctx, query,
			personID, e.Title, e.Company, e.Location, e.FromDate, e.ToDate, e.Duration, e.Description); err != nil {
			return dbx.WrapError(err)
		}
	}
	return nil
}

func (r *PostgresRepository) ReplaceEducations(ctx context.Context, personID string, items []models.Education) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM educations WHERE person_id = $1;`, personID); err != nil {
		return dbx.WrapError(err)
	}
	query := `
		INSERT INTO educations (person_id, institution, degree, from_date, to_date, description)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, e := range items {
		if _, err := r.db.ExecContext(ctx, query,
			personID, e.Institution, e.Degree, e.FromDate, e.ToDate, e.Description); err != nil {
			return dbx.WrapError(err)
		}
	}
	return nil
}

func (r *PostgresRepository) listExperiences(ctx context.Context, personID string) ([]models.Experience, error) {
	query := `
		SELECT person_id, title, company, location, from_date, to_date, duration, description
		FROM experiences WHERE person_id = $1 ORDER BY id;
	`
	rows, err := r.db.QueryContext(ctx, query, personID)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	var result []models.Experience
	for rows.Next() {
		var e models.Experience
		if err := rows.Scan(&e.PersonID, &e.Title, &e.Company, &e.Location,
			&e.FromDate, &e.ToDate, &e.Duration, &e.Description); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) listEducations(ctx context.Context, personID string) ([]models.Education, error) {
	query := `
		SELECT person_id, institution, degree, from_date, to_date, description
		FROM educations WHERE person_id = $1 ORDER BY id;
	`
	rows, err := r.db.QueryContext(ctx, query, personID)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	var result []models.Education
	for rows.Next() {
		var e models.Education
		if err := rows.Scan(&e.PersonID, &e.Institution, &e.Degree,
			&e.FromDate, &e.ToDate, &e.Description); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) GetWithChildren(ctx context.Context, key string) (*models.Person, error) {
	p, err := r.getByKey(ctx, key, false)
	if err != nil {
		return nil, err
	}
	if p.Experiences, err = r.listExperiences(ctx, p.ID); err != nil {
		return nil, err
	}
	if p.Educations, err = r.listEducations(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) Search(ctx context.Context, query, company, location string) ([]*models.Person, error) {
	clauses := []string{`status = $1`}
	args := []any{string(models.StatusActive)}

	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, "%"+value+"%")
		clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", column, len(args)))
	}
	add("name", query)
	add("company", company)
	add("location", location)

	q := `SELECT ` + personColumns + ` FROM persons WHERE ` +
		strings.Join(clauses, " AND ") + ` ORDER BY profile_url;`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	var result []*models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) ListActiveWithChildren(ctx context.Context) ([]*models.Person, error) {
	list, err := r.Search(ctx, "", "", "")
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.Experiences, err = r.listExperiences(ctx, p.ID); err != nil {
			return nil, err
		}
		if p.Educations, err = r.listEducations(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *PostgresRepository) Deactivate(ctx context.Context, key string) error {
	query := `UPDATE persons SET status = $2 WHERE profile_url = $1;`
	res, err := r.db.ExecContext(ctx, query, key, string(models.StatusDeactivated))
	if err != nil {
		return dbx.WrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: person %s", common.ErrNotFound, key)
	}
	return nil
}

func (r *PostgresRepository) groupCount(ctx context.Context, query string, limit int) ([]models.GroupCount, error) {
	rows, err := r.db.QueryContext(ctx, query, string(models.StatusActive), limit)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	var result []models.GroupCount
	for rows.Next() {
		var g models.GroupCount
		if err := rows.Scan(&g.Key, &g.Count); err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

// Grouped counts are over active persons only; rows with an empty group value
// are excluded. Ties are broken by ascending group key so repeated calls are
// deterministic.

func (r *PostgresRepository) TopCompanies(ctx context.Context, limit int) ([]models.GroupCount, error) {
	query := `
		SELECT company, COUNT(*) AS cnt FROM persons
		WHERE status = $1 AND company <> ''
		GROUP BY company ORDER BY cnt DESC, company ASC LIMIT $2;
	`
	return r.groupCount(ctx, query, limit)
}

func (r *PostgresRepository) TopLocations(ctx context.Context, limit int) ([]models.GroupCount, error) {
	query := `
		SELECT location, COUNT(*) AS cnt FROM persons
		WHERE status = $1 AND location <> ''
		GROUP BY location ORDER BY cnt DESC, location ASC LIMIT $2;
	`
	return r.groupCount(ctx, query, limit)
}

func (r *PostgresRepository) TopJobTitles(ctx context.Context, limit int) ([]models.GroupCount, error) {
	query := `
		SELECT job_title, COUNT(*) AS cnt FROM persons
		WHERE status = $1 AND job_title <> ''
		GROUP BY job_title ORDER BY cnt DESC, job_title ASC LIMIT $2;
	`
	return r.groupCount(ctx, query, limit)
}

func (r *PostgresRepository) EducationStats(ctx context.Context, limit int) ([]models.GroupCount, error) {
	query := `
		SELECT e.institution, COUNT(*) AS cnt FROM educations e
		JOIN persons p ON p.id = e.person_id
		WHERE p.status = $1 AND e.institution <> ''
		GROUP BY e.institution ORDER BY cnt DESC, e.institution ASC LIMIT $2;
	`
	return r.groupCount(ctx, query, limit)
}

func (r *PostgresRepository) CountPersons(ctx context.Context) (int64, int64, error) {
	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE status = $1) FROM persons;`
	var total, active int64
	if err := r.db.QueryRowContext(ctx, query, string(models.StatusActive)).Scan(&total, &active); err != nil {
		return 0, 0, dbx.WrapError(err)
	}
	return total, active, nil
}

func (r *PostgresRepository) CountExperiences(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM experiences;`).Scan(&n); err != nil {
		return 0, dbx.WrapError(err)
	}
	return n, nil
}

func (r *PostgresRepository) CountEducations(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM educations;`).Scan(&n); err != nil {
		return 0, dbx.WrapError(err)
	}
	return n, nil
}
