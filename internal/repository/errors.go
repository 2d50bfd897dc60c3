package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateAccount  = errors.New("account with this userID already exists")
	ErrDuplicateServer   = errors.New("server with this name already exists")
	ErrReferenceNotFound = errors.New("referenced record does not exist")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// pgCode returns the SQLSTATE of a Postgres error, or "" for anything else.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// translate maps driver errors onto the package sentinels. dup is returned
// for unique violations so each table can name its own conflict.
func translate(err, dup error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	switch pgCode(err) {
	case pgUniqueViolation:
		if dup != nil {
			return dup
		}
	case pgForeignKeyViolation:
		return ErrReferenceNotFound
	}
	return err
}
