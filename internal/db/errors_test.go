package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    error
		wantMsg string
	}{
		{name: "no rows", err: pgx.ErrNoRows, want: ErrNotFound, wantMsg: "skills s1: not found"},
		{name: "wrapped no rows", err: fmt.Errorf("scan: %w", pgx.ErrNoRows), want: ErrNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: ErrConflict},
		{name: "check violation", err: &pgconn.PgError{Code: "23514", Message: "rating"}, want: ErrInvalid},
		{name: "not null violation", err: &pgconn.PgError{Code: "23502"}, want: ErrInvalid},
		{name: "undefined column", err: &pgconn.PgError{Code: "42703"}, want: ErrInvalid},
		{name: "deadline", err: context.DeadlineExceeded, want: context.DeadlineExceeded},
		{name: "canceled", err: context.Canceled, want: context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "skills", "s1")
			require.Error(t, got)
			assert.ErrorIs(t, got, tt.want)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, got.Error())
			}
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	assert.NoError(t, mapError(nil, "skills", "s1"))
}

func TestMapError_OtherErrorsKeepCause(t *testing.T) {
	cause := errors.New("connection reset")
	got := mapError(cause, "blog_posts", "")

	assert.ErrorIs(t, got, cause)
	assert.Equal(t, "blog_posts: connection reset", got.Error())
	assert.NotErrorIs(t, got, ErrNotFound)
}
