package repository

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/joseph-ayodele/branch-expenses/internal/common"
)

// SQLSTATE codes of the integrity constraint violation class. SQLite failures are
// reported with the same codes so callers see one vocabulary.
const (
	codeNotNull    = "23502"
	codeForeignKey = "23503"
	codeUnique     = "23505"
	codeCheck      = "23514"
)

var reSQLiteConstraint = regexp.MustCompile(`(UNIQUE|FOREIGN KEY|NOT NULL|CHECK) constraint failed(?::\s*([^()]+))?`)

// classify turns a driver error into a ConstraintViolation or a PersistenceError.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		detail := pgErr.Detail
		if detail == "" {
			detail = pgErr.Message
		}
		return &common.ConstraintViolation{
			Code:       pgErr.Code,
			Constraint: pgErr.ConstraintName,
			Detail:     detail,
			Cause:      err,
		}
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return sqliteViolation(liteErr)
	}

	return &common.PersistenceError{Op: op, Cause: err}
}

func sqliteViolation(err *sqlite.Error) *common.ConstraintViolation {
	cv := &common.ConstraintViolation{Detail: err.Error(), Cause: err}

	switch err.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		cv.Code = codeUnique
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		cv.Code = codeForeignKey
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		cv.Code = codeNotNull
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		cv.Code = codeCheck
	}

	if m := reSQLiteConstraint.FindStringSubmatch(err.Error()); m != nil {
		if cv.Code == "" {
			cv.Code = map[string]string{
				"UNIQUE":      codeUnique,
				"FOREIGN KEY": codeForeignKey,
				"NOT NULL":    codeNotNull,
				"CHECK":       codeCheck,
			}[m[1]]
		}
		cv.Constraint = strings.TrimSpace(m[2])
		if cv.Constraint == "" {
			cv.Constraint = m[1]
		}
	}
	if cv.Code == "" {
		cv.Code = "23000"
	}
	return cv
}
