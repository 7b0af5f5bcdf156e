package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/profiledb/internal/common"
	"github.com/avolkov/profiledb/internal/server/repositories/repomanager"
)

func newAnalyticsService(t *testing.T) (*AnalyticsService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewAnalyticsService(db, repomanager.NewPostgresRepositoryManager()), mock
}

func TestTopCompanies_DeterministicTieBreak(t *testing.T) {
	svc, mock := newAnalyticsService(t)

	// counts descending, ties resolved by ascending company name in SQL
	mock.ExpectQuery(`SELECT company, COUNT\(\*\) AS cnt FROM persons WHERE status = \$1 AND company <> '' GROUP BY company ORDER BY cnt DESC, company ASC LIMIT \$2`).
		WithArgs("active", 2).
		WillReturnRows(sqlmock.NewRows([]string{"company", "cnt"}).
			AddRow("AcmeA", int64(3)).
			AddRow("AcmeB", int64(3)))

	result, err := svc.TopCompanies(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "AcmeA", result[0].Key)
	assert.Equal(t, "AcmeB", result[1].Key)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTopLocations(t *testing.T) {
	svc, mock := newAnalyticsService(t)

	mock.ExpectQuery(`SELECT location, COUNT\(\*\) AS cnt FROM persons WHERE status = \$1 AND location <> ''`).
		WithArgs("active", 5).
		WillReturnRows(sqlmock.NewRows([]string{"location", "cnt"}).AddRow("Berlin", int64(4)))

	result, err := svc.TopLocations(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, int64(4), result[0].Count)
}

func TestTopJobTitles(t *testing.T) {
	svc, mock := newAnalyticsService(t)

	mock.ExpectQuery(`SELECT job_title, COUNT\(\*\) AS cnt FROM persons WHERE status = \$1 AND job_title <> ''`).
		WithArgs("active", 3).
		WillReturnRows(sqlmock.NewRows([]string{"job_title", "cnt"}).AddRow("Engineer", int64(7)))

	result, err := svc.TopJobTitles(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, result, 1)
}

func TestEducationStats_JoinsActivePersons(t *testing.T) {
	svc, mock := newAnalyticsService(t)

	mock.ExpectQuery(`SELECT e.institution, COUNT\(\*\) AS cnt FROM educations e JOIN persons p ON p.id = e.person_id WHERE p.status = \$1`).
		WithArgs("active", educationStatsLimit).
		WillReturnRows(sqlmock.NewRows([]string{"institution", "cnt"}).AddRow("TU Berlin", int64(2)))

	result, err := svc.EducationStats(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalytics_RejectsNonPositiveLimit(t *testing.T) {
	svc, mock := newAnalyticsService(t)

	for _, limit := range []int{0, -1} {
		_, err := svc.TopCompanies(context.Background(), limit)
		require.ErrorIs(t, err, common.ErrValidation)
		_, err = svc.TopLocations(context.Background(), limit)
		require.ErrorIs(t, err, common.ErrValidation)
		_, err = svc.TopJobTitles(context.Background(), limit)
		require.ErrorIs(t, err, common.ErrValidation)
	}
	require.NoError(t, mock.ExpectationsWereMet(), "invalid limit must not reach storage")
}
