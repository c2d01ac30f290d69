package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a record with the same id already exists.
	ErrConflict = errors.New("already exists")
	// ErrInvalid is returned when the store rejects a record or a request
	// names an unknown collection or column.
	ErrInvalid = errors.New("invalid record")
)

// mapError converts pgx errors to the store's sentinel errors, prefixed with
// the collection target and record id. Context errors pass through.
func mapError(err error, target, id string) error {
	if err == nil {
		return nil
	}
	prefix := target
	if id != "" {
		prefix += " " + id
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", prefix, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", prefix, ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w", prefix, ErrConflict)
		case "23502", // not_null_violation
			"23514", // check_violation
			"22P02", // invalid_text_representation
			"42703": // undefined_column
			return fmt.Errorf("%s: %w: %s", prefix, ErrInvalid, pgErr.Message)
		}
	}

	return fmt.Errorf("%s: %w", prefix, err)
}
