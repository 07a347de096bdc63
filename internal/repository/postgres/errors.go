package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// SQLSTATE codes we branch on.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool { return pqCode(err) == pgUniqueViolation }

func isForeignKeyViolation(err error) bool { return pqCode(err) == pgForeignKeyViolation }

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
