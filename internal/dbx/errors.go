package dbx

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avolkov/profiledb/internal/common"
)

// pgUniqueViolation is SQLSTATE 23505; the "08" class covers connection
// exceptions.
const (
	pgUniqueViolation  = "23505"
	pgConnectionClass  = "08"
	pgAdminShutdown    = "57P01"
	pgCrashShutdown    = "57P02"
	pgCannotConnectNow = "57P03"
)

// WrapError classifies a driver error so callers can match with errors.Is:
// unique-key violations become common.ErrConflict, connection-level failures
// common.ErrStorageUnavailable, everything else a generic wrapped db error.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation:
			return fmt.Errorf("%w: %v", common.ErrConflict, err)
		case strings.HasPrefix(pgErr.Code, pgConnectionClass),
			pgErr.Code == pgAdminShutdown,
			pgErr.Code == pgCrashShutdown,
			pgErr.Code == pgCannotConnectNow:
			return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
		}
	}

	return fmt.Errorf("db error: %w", err)
}
