package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
	pgErrCodeInvalidTextRep      = "22P02"
)

func isPgErrCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

func isUniqueViolation(err error) bool {
	return isPgErrCode(err, pgErrCodeUniqueViolation)
}

func isForeignKeyViolation(err error) bool {
	return isPgErrCode(err, pgErrCodeForeignKeyViolation)
}
