package repomanager

import (
	"context"
	"database/sql"

	"github.com/avolkov/profiledb/internal/dbx"
	"github.com/avolkov/profiledb/internal/server/repositories/changelog"
	"github.com/avolkov/profiledb/internal/server/repositories/persons"
)

// RepositoryManager vends repositories bound to a DBTX, so a service can use
// the same repository code against the pool or against an open transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Persons(db dbx.DBTX) persons.Repository
	Changelog(db dbx.DBTX) changelog.Repository
}
