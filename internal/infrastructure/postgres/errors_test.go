package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-user-registration/internal/domain/repository"
)

func TestTranslate(t *testing.T) {
	other := errors.New("boom")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, repository.ErrNotFound},
		{"email index", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, repository.ErrDuplicateEmail},
		{"phone index", &pgconn.PgError{Code: "23505", ConstraintName: "users_phone_key"}, repository.ErrDuplicatePhone},
		{"wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}), repository.ErrDuplicateEmail},
		{"other constraint", &pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"}, nil},
		{"check violation", &pgconn.PgError{Code: "23514", ConstraintName: "users_updated_after_created"}, nil},
		{"unrelated", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.in)
			switch {
			case tt.in == nil:
				assert.NoError(t, got)
			case tt.want == nil:
				assert.Same(t, tt.in, got)
			default:
				assert.ErrorIs(t, got, tt.want)
			}
		})
	}
}
