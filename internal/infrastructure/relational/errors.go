package relational

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"github.com/oksasatya/go-user-registration/internal/domain/repository"
)

// translate maps lib/pq errors onto repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		switch {
		case strings.Contains(pqErr.Constraint, "email"):
			return repository.ErrDuplicateEmail
		case strings.Contains(pqErr.Constraint, "phone"):
			return repository.ErrDuplicatePhone
		}
	}
	return err
}
