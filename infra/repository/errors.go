package repository

import (
	"errors"
	"strings"

	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// pgUniqueViolation is the SQLSTATE Postgres reports for unique constraint
// violations.
const pgUniqueViolation = "23505"

// MapGormErrorToDomain converts unique constraint violations raised by the
// database driver into account conflict errors. Any other error, including
// gorm.ErrRecordNotFound, is returned unchanged.
func MapGormErrorToDomain(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return account.NewConflictError(conflictField(pgErr.ConstraintName + " " + pgErr.Detail))
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return account.NewConflictError(conflictField(sqliteErr.Error()))
	}

	// Reported when gorm is opened with TranslateError.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return account.NewConflictError("")
	}

	return err
}

// WrapError runs a GORM operation and maps its error.
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(&model).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}

// conflictField extracts the unique column from a constraint name or driver
// message such as "idx_accounts_email" or "UNIQUE constraint failed:
// Accounts.name". Email is checked first because "name" is a substring of
// unrelated identifiers.
func conflictField(s string) string {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, account.FieldEmail):
		return account.FieldEmail
	case strings.Contains(s, account.FieldName):
		return account.FieldName
	default:
		return ""
	}
}
