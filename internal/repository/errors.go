package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrPasswordAlreadySet is returned when a bootstrap write finds a hash in place.
	ErrPasswordAlreadySet = errors.New("password already set")
	// ErrStoreUnavailable marks a backing table or server that cannot be used.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// undefinedTable is the PostgreSQL SQLSTATE for a missing relation.
const undefinedTable = "42P01"

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return err
}
